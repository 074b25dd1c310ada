package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// remoteDarwinHostProvider answers host identity queries for remote
// macOS systems over SSH.
type remoteDarwinHostProvider struct {
	runner commandRunner
}

func newRemoteDarwinHostProvider(p *sshPlatform) *remoteDarwinHostProvider {
	return &remoteDarwinHostProvider{
		runner: p,
	}
}

// newTestableRemoteDarwinHostProviderWithRunner creates a provider with an injectable runner for testing.
func newTestableRemoteDarwinHostProviderWithRunner(runner commandRunner) *remoteDarwinHostProvider {
	return &remoteDarwinHostProvider{
		runner: runner,
	}
}

// Identity collects hostname, product name and version (sw_vers), kernel
// release, and uptime. Uptime is computed from the remote clock and the
// remote boot time so local clock skew cannot distort it.
func (h *remoteDarwinHostProvider) Identity() (*HostIdentity, error) {
	const op = "remote host identity"

	hostname, err := h.runner.runCommand("hostname")
	if err != nil {
		return nil, unavailable(op, err)
	}

	product, err := h.runner.runCommand("sw_vers -productName")
	if err != nil {
		return nil, unavailable(op, err)
	}
	version, err := h.runner.runCommand("sw_vers -productVersion")
	if err != nil {
		return nil, unavailable(op, err)
	}

	kernel, err := h.runner.runCommand("uname -r")
	if err != nil {
		return nil, unavailable(op, err)
	}

	bootRaw, err := h.runner.runCommand("sysctl -n kern.boottime")
	if err != nil {
		return nil, unavailable(op, err)
	}
	nowRaw, err := h.runner.runCommand("date +%s")
	if err != nil {
		return nil, unavailable(op, err)
	}
	uptime, err := uptimeFromBootTime(bootRaw, nowRaw)
	if err != nil {
		return nil, unrecognized(op, err)
	}

	return &HostIdentity{
		Hostname:      strings.TrimSpace(hostname),
		OS:            strings.TrimSpace(product),
		OSVersion:     strings.TrimSpace(version),
		KernelVersion: strings.TrimSpace(kernel),
		Uptime:        uptime,
	}, nil
}

// uptimeFromBootTime derives uptime from kern.boottime output
// ("{ sec = 1692783600, usec = 0 } ...") and the remote epoch clock.
func uptimeFromBootTime(bootRaw, nowRaw string) (time.Duration, error) {
	idx := strings.Index(bootRaw, "sec =")
	if idx < 0 {
		return 0, fmt.Errorf("no sec field in boottime output %q", strings.TrimSpace(bootRaw))
	}
	rest := strings.TrimSpace(bootRaw[idx+len("sec ="):])
	end := strings.IndexAny(rest, ", }")
	if end < 0 {
		end = len(rest)
	}
	bootSec, err := strconv.ParseInt(rest[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse boot seconds %q: %w", rest[:end], err)
	}

	nowSec, err := strconv.ParseInt(strings.TrimSpace(nowRaw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse remote clock %q: %w", strings.TrimSpace(nowRaw), err)
	}

	if nowSec < bootSec {
		return 0, fmt.Errorf("boot time %d after current time %d", bootSec, nowSec)
	}
	return time.Duration(nowSec-bootSec) * time.Second, nil
}
