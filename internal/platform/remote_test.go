package platform

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"
)

func TestNewSSHPlatform(t *testing.T) {
	tests := []struct {
		name    string
		config  RemoteConfig
		wantErr bool
	}{
		{
			name: "valid config with password auth",
			config: RemoteConfig{
				Host: "example.com",
				User: "testuser",
				AuthMethod: PasswordAuth{
					Password: "testpass",
				},
			},
			wantErr: false,
		},
		{
			name: "valid config with key auth",
			config: RemoteConfig{
				Host: "example.com",
				User: "testuser",
				AuthMethod: KeyAuth{
					PrivateKeyPath: "/path/to/key",
				},
			},
			wantErr: false,
		},
		{
			name: "missing host",
			config: RemoteConfig{
				User: "testuser",
				AuthMethod: PasswordAuth{
					Password: "testpass",
				},
			},
			wantErr: true,
		},
		{
			name: "missing user",
			config: RemoteConfig{
				Host: "example.com",
				AuthMethod: PasswordAuth{
					Password: "testpass",
				},
			},
			wantErr: true,
		},
		{
			name: "missing auth method",
			config: RemoteConfig{
				Host: "example.com",
				User: "testuser",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSSHPlatform(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("newSSHPlatform() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSSHPlatform_Name(t *testing.T) {
	tests := []struct {
		name     string
		targetOS string
		want     string
	}{
		{
			name:     "linux platform",
			targetOS: "linux",
			want:     "remote-linux",
		},
		{
			name:     "darwin platform",
			targetOS: "darwin",
			want:     "remote-darwin",
		},
		{
			name:     "no target os",
			targetOS: "",
			want:     "remote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &sshPlatform{
				targetOS: tt.targetOS,
			}
			if got := p.Name(); got != tt.want {
				t.Errorf("sshPlatform.Name() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoteConfig_Defaults(t *testing.T) {
	config := RemoteConfig{
		Host: "example.com",
		User: "testuser",
		AuthMethod: PasswordAuth{
			Password: "testpass",
		},
	}

	p, err := newSSHPlatform(config)
	if err != nil {
		t.Fatalf("newSSHPlatform() error = %v", err)
	}

	if p.config.Port != 22 {
		t.Errorf("Default port = %d, want 22", p.config.Port)
	}

	if p.config.CommandTimeout != 5*time.Second {
		t.Errorf("Default command timeout = %v, want 5s", p.config.CommandTimeout)
	}
}

func TestAuthMethod_Interface(t *testing.T) {
	// All auth methods must implement the marker interface.
	var _ AuthMethod = PasswordAuth{}
	var _ AuthMethod = KeyAuth{}
	var _ AuthMethod = AgentAuth{}
}

func TestSSHPlatform_Close(t *testing.T) {
	p := &sshPlatform{}

	ctx, cancel := context.WithCancel(context.Background())
	p.ctx = ctx
	p.cancel = cancel

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}

	// Calling Close again should be safe
	if err := p.Close(); err != nil {
		t.Errorf("Close() second call error = %v, want nil", err)
	}
}

func TestSSHPlatform_Providers(t *testing.T) {
	tests := []struct {
		name     string
		targetOS string
	}{
		{
			name:     "linux platform",
			targetOS: "linux",
		},
		{
			name:     "darwin platform",
			targetOS: "darwin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &sshPlatform{
				targetOS: tt.targetOS,
			}

			switch tt.targetOS {
			case "linux":
				p.cpu = newRemoteLinuxCPUProvider(p)
				p.memory = newRemoteLinuxMemoryProvider(p)
				p.host = newRemoteLinuxHostProvider(p)
			case "darwin":
				p.cpu = newRemoteDarwinCPUProvider(p)
				p.memory = newRemoteDarwinMemoryProvider(p)
				p.host = newRemoteDarwinHostProvider(p)
			}

			if p.CPU() == nil {
				t.Error("CPU() = nil, want provider")
			}
			if p.Memory() == nil {
				t.Error("Memory() = nil, want provider")
			}
			if p.Host() == nil {
				t.Error("Host() = nil, want provider")
			}
		})
	}
}

func TestSSHPlatform_CurrentThreadID(t *testing.T) {
	p := &sshPlatform{targetOS: "linux"}

	// Each remote query runs in its own short-lived shell; there is no
	// calling-process thread to report.
	if _, err := p.CurrentThreadID(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("CurrentThreadID() error = %v, want ErrUnavailable", err)
	}
}

func TestRunCommand_NotConnected(t *testing.T) {
	p := &sshPlatform{}

	if _, err := p.runCommand("uname -s"); err == nil {
		t.Error("runCommand() without a connection should fail")
	}
}

// unsupportedAuth is a stand-in for an auth method buildSSHConfig does
// not know.
type unsupportedAuth struct{}

func (unsupportedAuth) isAuthMethod() {}

func TestBuildSSHConfig(t *testing.T) {
	t.Run("password auth", func(t *testing.T) {
		p, err := newSSHPlatform(RemoteConfig{
			Host:                  "example.com",
			User:                  "testuser",
			AuthMethod:            PasswordAuth{Password: "testpass"},
			InsecureIgnoreHostKey: true,
		})
		if err != nil {
			t.Fatalf("newSSHPlatform() error = %v", err)
		}

		config, err := p.buildSSHConfig()
		if err != nil {
			t.Fatalf("buildSSHConfig() error = %v", err)
		}
		if config.User != "testuser" {
			t.Errorf("User = %q, want %q", config.User, "testuser")
		}
		if len(config.Auth) != 1 {
			t.Errorf("len(Auth) = %d, want 1", len(config.Auth))
		}
		if config.HostKeyCallback == nil {
			t.Error("HostKeyCallback is nil")
		}
	})

	t.Run("key auth with unreadable key", func(t *testing.T) {
		p, err := newSSHPlatform(RemoteConfig{
			Host:                  "example.com",
			User:                  "testuser",
			AuthMethod:            KeyAuth{PrivateKeyPath: filepath.Join(t.TempDir(), "absent")},
			InsecureIgnoreHostKey: true,
		})
		if err != nil {
			t.Fatalf("newSSHPlatform() error = %v", err)
		}

		_, err = p.buildSSHConfig()
		if err == nil || !strings.Contains(err.Error(), "failed to read private key") {
			t.Errorf("buildSSHConfig() error = %v, want private key read failure", err)
		}
	})

	t.Run("agent auth without agent socket", func(t *testing.T) {
		t.Setenv("SSH_AUTH_SOCK", "")

		p, err := newSSHPlatform(RemoteConfig{
			Host:                  "example.com",
			User:                  "testuser",
			AuthMethod:            AgentAuth{},
			InsecureIgnoreHostKey: true,
		})
		if err != nil {
			t.Fatalf("newSSHPlatform() error = %v", err)
		}

		if _, err := p.buildSSHConfig(); err == nil {
			t.Error("buildSSHConfig() without SSH_AUTH_SOCK should fail")
		}
	})

	t.Run("unsupported auth method", func(t *testing.T) {
		p, err := newSSHPlatform(RemoteConfig{
			Host:                  "example.com",
			User:                  "testuser",
			AuthMethod:            unsupportedAuth{},
			InsecureIgnoreHostKey: true,
		})
		if err != nil {
			t.Fatalf("newSSHPlatform() error = %v", err)
		}

		_, err = p.buildSSHConfig()
		if err == nil || !strings.Contains(err.Error(), "unsupported auth method") {
			t.Errorf("buildSSHConfig() error = %v, want unsupported auth method", err)
		}
	})
}

func TestBuildHostKeyCallback(t *testing.T) {
	tests := []struct {
		name      string
		config    RemoteConfig
		wantErr   bool
		errSubstr string
	}{
		{
			name: "custom callback takes precedence",
			config: RemoteConfig{
				Host:       "example.com",
				User:       "testuser",
				AuthMethod: PasswordAuth{Password: "testpass"},
				HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
					return nil
				},
			},
			wantErr: false,
		},
		{
			name: "insecure mode with explicit flag",
			config: RemoteConfig{
				Host:                  "example.com",
				User:                  "testuser",
				AuthMethod:            PasswordAuth{Password: "testpass"},
				InsecureIgnoreHostKey: true,
			},
			wantErr: false,
		},
		{
			name: "nonexistent known_hosts file",
			config: RemoteConfig{
				Host:           "example.com",
				User:           "testuser",
				AuthMethod:     PasswordAuth{Password: "testpass"},
				KnownHostsPath: "/nonexistent/path/known_hosts",
			},
			wantErr:   true,
			errSubstr: "known_hosts file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newSSHPlatform(tt.config)
			if err != nil {
				t.Fatalf("newSSHPlatform() error = %v", err)
			}

			callback, err := p.buildHostKeyCallback()
			if (err != nil) != tt.wantErr {
				t.Errorf("buildHostKeyCallback() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errSubstr != "" {
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("buildHostKeyCallback() error = %v, want error containing %q", err, tt.errSubstr)
				}
			}
			if !tt.wantErr && callback == nil {
				t.Errorf("buildHostKeyCallback() returned nil callback without error")
			}
		})
	}
}

func TestBuildHostKeyCallbackWithValidKnownHosts(t *testing.T) {
	tmpDir := t.TempDir()
	knownHostsPath := filepath.Join(tmpDir, "known_hosts")

	// A well-formed OpenSSH known_hosts entry with an ed25519 key.
	knownHostsContent := "example.com ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIBaLR4I4jx/L5oqjNBl0r/QJLCC0BFmPdCLzU4mQD8vS\n"
	if err := os.WriteFile(knownHostsPath, []byte(knownHostsContent), 0600); err != nil {
		t.Fatalf("Failed to write known_hosts file: %v", err)
	}

	config := RemoteConfig{
		Host:           "example.com",
		User:           "testuser",
		AuthMethod:     PasswordAuth{Password: "testpass"},
		KnownHostsPath: knownHostsPath,
	}

	p, err := newSSHPlatform(config)
	if err != nil {
		t.Fatalf("newSSHPlatform() error = %v", err)
	}

	callback, err := p.buildHostKeyCallback()
	if err != nil {
		t.Errorf("buildHostKeyCallback() error = %v", err)
	}
	if callback == nil {
		t.Errorf("buildHostKeyCallback() returned nil callback")
	}
}
