package platform

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// commandRunner abstracts remote command execution so provider parsing
// can be tested against canned output.
type commandRunner interface {
	runCommand(cmd string) (string, error)
}

// sshPlatform implements Platform for remote systems via SSH.
// It executes standard shell commands on the remote system and parses
// the output locally, eliminating the need for any agent on the target.
type sshPlatform struct {
	config     RemoteConfig
	conn       *sshConnectionManager
	targetOS   string
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.RWMutex
	cmdTimeout time.Duration

	cpu    CPUProvider
	memory MemoryProvider
	host   HostProvider
}

// newSSHPlatform validates the configuration; Initialize performs the
// actual connection.
func newSSHPlatform(config RemoteConfig) (*sshPlatform, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if config.User == "" {
		return nil, fmt.Errorf("user is required")
	}
	if config.AuthMethod == nil {
		return nil, fmt.Errorf("authentication method is required")
	}

	if config.Port == 0 {
		config.Port = 22
	}
	if config.CommandTimeout == 0 {
		config.CommandTimeout = 5 * time.Second
	}

	return &sshPlatform{
		config:     config,
		cmdTimeout: config.CommandTimeout,
	}, nil
}

func (p *sshPlatform) Name() string {
	if p.targetOS != "" {
		return fmt.Sprintf("remote-%s", p.targetOS)
	}
	return "remote"
}

// Initialize connects to the remote host and wires up the providers for
// the detected OS. The ctx bounds initialization only; the platform
// itself lives until Close, with every later command bounded by the
// per-command timeout.
func (p *sshPlatform) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())

	sshConfig, err := p.buildSSHConfig()
	if err != nil {
		return fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", p.config.Host, p.config.Port)
	conn := newSSHConnectionManager(addr, sshConfig, SSHConnectionConfig{
		MaxReconnectAttempts: p.config.MaxReconnectAttempts,
	})
	if err := conn.Connect(); err != nil {
		return err
	}

	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()

	if p.config.TargetOS == "" {
		p.targetOS, err = p.detectOS()
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to detect remote OS: %w", err)
		}
	} else {
		p.targetOS = p.config.TargetOS
	}

	switch p.targetOS {
	case "linux":
		p.cpu = newRemoteLinuxCPUProvider(p)
		p.memory = newRemoteLinuxMemoryProvider(p)
		p.host = newRemoteLinuxHostProvider(p)
	case "darwin":
		p.cpu = newRemoteDarwinCPUProvider(p)
		p.memory = newRemoteDarwinMemoryProvider(p)
		p.host = newRemoteDarwinHostProvider(p)
	case "windows":
		conn.Close()
		return fmt.Errorf("Windows remote queries not implemented")
	default:
		conn.Close()
		return fmt.Errorf("unsupported remote OS: %s", p.targetOS)
	}

	return nil
}

func (p *sshPlatform) buildSSHConfig() (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	switch auth := p.config.AuthMethod.(type) {
	case PasswordAuth:
		authMethods = append(authMethods, ssh.Password(auth.Password))
	case KeyAuth:
		key, err := os.ReadFile(auth.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		var signer ssh.Signer
		if auth.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(auth.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	case AgentAuth:
		socket := os.Getenv("SSH_AUTH_SOCK")
		if socket == "" {
			return nil, fmt.Errorf("SSH_AUTH_SOCK not set")
		}
		// Use a callback to defer the agent connection until it's actually needed
		authMethods = append(authMethods, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			agentConn, err := net.Dial("unix", socket)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to SSH agent: %w", err)
			}
			defer agentConn.Close()

			agentClient := agent.NewClient(agentConn)
			signers, err := agentClient.Signers()
			if err != nil {
				return nil, fmt.Errorf("failed to get signers from SSH agent: %w", err)
			}

			return signers, nil
		}))
	default:
		return nil, fmt.Errorf("unsupported auth method type: %T", auth)
	}

	hostKeyCallback, err := p.buildHostKeyCallback()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            p.config.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}, nil
}

// buildHostKeyCallback selects the host key verification strategy in
// precedence order: explicit callback, insecure opt-out, known_hosts
// file. A missing known_hosts file is an error, never a silent fallback
// to unverified connections.
func (p *sshPlatform) buildHostKeyCallback() (ssh.HostKeyCallback, error) {
	if p.config.HostKeyCallback != nil {
		return p.config.HostKeyCallback, nil
	}
	if p.config.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	path := p.config.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate default known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("known_hosts file not found: %s", path)
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse known_hosts %s: %w", path, err)
	}
	return callback, nil
}

func (p *sshPlatform) detectOS() (string, error) {
	// uname works on Linux, macOS and the BSDs
	output, err := p.runCommand("uname -s")
	if err == nil {
		switch strings.ToLower(strings.TrimSpace(output)) {
		case "linux":
			return "linux", nil
		case "darwin":
			return "darwin", nil
		}
	}

	// Windows detection via the OS environment variable
	output, err = p.runCommand("echo %OS%")
	if err == nil && strings.Contains(output, "Windows") {
		return "windows", nil
	}

	return "", fmt.Errorf("unable to detect remote OS")
}

// runCommand executes a command on the remote system and returns the output.
func (p *sshPlatform) runCommand(cmd string) (string, error) {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()

	if conn == nil {
		return "", fmt.Errorf("SSH client not connected")
	}

	session, err := conn.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("command failed: %w (stderr: %s)", err, stderr.String())
		}
		return stdout.String(), nil
	case <-time.After(p.cmdTimeout):
		// Ensure the remote command is actually terminated on timeout
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		return "", fmt.Errorf("command timed out after %v", p.cmdTimeout)
	case <-p.ctx.Done():
		// Ensure the remote command is terminated when the platform context is cancelled
		_ = session.Signal(ssh.SIGKILL)
		_ = session.Close()
		return "", p.ctx.Err()
	}
}

func (p *sshPlatform) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (p *sshPlatform) CPU() CPUProvider {
	return p.cpu
}

func (p *sshPlatform) Memory() MemoryProvider {
	return p.memory
}

func (p *sshPlatform) Host() HostProvider {
	return p.host
}

// CurrentThreadID has no meaning for a remote host: each query runs in a
// short-lived shell, not in any thread of the calling process.
func (p *sshPlatform) CurrentThreadID() (int, error) {
	return 0, unavailable("current thread id", fmt.Errorf("remote platform %s", p.Name()))
}
