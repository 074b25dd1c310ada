// Package main provides the hostinfo command line tool. It prints CPU,
// memory and host identity facts for the local system or a remote one
// reached over SSH, and can serve the same facts as a small HTTP API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/opd-ai/go-hostinfo/internal/api"
	"github.com/opd-ai/go-hostinfo/internal/platform"
	"github.com/opd-ai/go-hostinfo/internal/profiling"
	"github.com/opd-ai/go-hostinfo/pkg/hostinfo"
)

// Version is the current version of hostinfo.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	jsonOut := flag.Bool("json", false, "Print the report as JSON")
	remote := flag.String("remote", "", "Probe a remote host over SSH (user@host[:port])")
	keyPath := flag.String("key", "", "SSH private key for -remote (default: SSH agent)")
	passwordEnv := flag.String("password-env", "", "Environment variable holding the SSH password for -remote")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout for collecting the report")
	serve := flag.String("serve", "", "Serve the HTTP API on this address (e.g. :8080) until signalled")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	cpuProfile := flag.String("cpuprofile", "", "Write CPU profile to file")
	memProfile := flag.String("memprofile", "", "Write memory profile to file")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("hostinfo version %s\n", Version)
		return 0
	}

	profConfig := profiling.Config{
		CPUProfilePath: *cpuProfile,
		MemProfilePath: *memProfile,
	}
	if profConfig.ProfilingEnabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	opts := hostinfo.DefaultOptions()
	if *verbose {
		opts.Logger = hostinfo.DebugLogger()
	}

	probe, cleanup, err := buildProbe(*remote, *keyPath, *passwordEnv, &opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	if *serve != "" {
		return runServe(probe, *serve)
	}
	return runReport(probe, *jsonOut, *timeout)
}

// buildProbe creates a local probe, or a remote one when target is set.
// The returned cleanup releases whatever the probe was built over.
func buildProbe(target, keyPath, passwordEnv string, opts *hostinfo.Options) (*hostinfo.Probe, func(), error) {
	if target == "" {
		probe, err := hostinfo.New(opts)
		if err != nil {
			return nil, nil, err
		}
		return probe, func() { probe.Close() }, nil
	}

	config, err := parseRemoteTarget(target)
	if err != nil {
		return nil, nil, err
	}
	config.AuthMethod, err = chooseAuth(keyPath, passwordEnv)
	if err != nil {
		return nil, nil, err
	}

	p, err := platform.NewRemotePlatform(config)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.Initialize(ctx); err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("connecting to %s: %w", config.Host, err)
	}

	probe := hostinfo.NewFromPlatform(p, opts)
	return probe, func() { p.Close() }, nil
}

// parseRemoteTarget splits user@host[:port] into a RemoteConfig.
// A missing port stays zero; the factory applies the SSH default.
func parseRemoteTarget(target string) (platform.RemoteConfig, error) {
	var config platform.RemoteConfig

	user, hostPort, ok := strings.Cut(target, "@")
	if !ok || user == "" || hostPort == "" {
		return config, fmt.Errorf("invalid remote target %q, want user@host[:port]", target)
	}
	config.User = user

	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		config.Host = hostPort
		return config, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return config, fmt.Errorf("invalid port %q in remote target", portStr)
	}
	config.Host = host
	config.Port = port
	return config, nil
}

// chooseAuth picks the SSH authentication method from the flags:
// explicit key first, then password from the environment, agent otherwise.
func chooseAuth(keyPath, passwordEnv string) (platform.AuthMethod, error) {
	if keyPath != "" {
		return platform.KeyAuth{PrivateKeyPath: keyPath}, nil
	}
	if passwordEnv != "" {
		password := os.Getenv(passwordEnv)
		if password == "" {
			return nil, fmt.Errorf("environment variable %s is empty or unset", passwordEnv)
		}
		return platform.PasswordAuth{Password: password}, nil
	}
	return platform.AgentAuth{}, nil
}

// runReport prints one report to stdout.
func runReport(probe *hostinfo.Probe, asJSON bool, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := probe.Collect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: collecting report: %v\n", err)
		return 1
	}

	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: encoding report: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	if err := report.WriteText(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing report: %v\n", err)
		return 1
	}
	return 0
}

// runServe blocks serving the HTTP API until SIGINT or SIGTERM.
func runServe(probe *hostinfo.Probe, address string) int {
	server := api.NewServer(probe)

	// Sustained growth in the server's own heap or goroutine count gets
	// reported to stderr; it never stops the service.
	watchdog := profiling.NewMemoryLeakDetector(profiling.DefaultLeakDetectorConfig())
	watchdog.SetOnLeakCallback(func(growth profiling.MemoryGrowth) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", growth.LeakReason)
	})
	if err := watchdog.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: memory watchdog: %v\n", err)
	} else {
		defer watchdog.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(address)
	}()

	fmt.Printf("hostinfo %s serving on %s\n", Version, address)

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Error: server: %v\n", err)
		return 1
	case <-sigCh:
		fmt.Println("Shutting down...")
		if err := server.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: shutdown: %v\n", err)
			return 1
		}
	}
	return 0
}
