package platform

import (
	"time"

	"golang.org/x/crypto/ssh"
)

// NewPlatform creates the Platform implementation for the current OS.
// Linux and Windows get native implementations; everything else gets the
// portable implementation.
func NewPlatform() (Platform, error) {
	return newPlatform()
}

// NewRemotePlatform creates a Platform that queries a remote system via SSH.
// The remote system needs no agent installed; facts are collected with
// standard shell commands and parsed locally.
func NewRemotePlatform(config RemoteConfig) (Platform, error) {
	return newSSHPlatform(config)
}

// RemoteConfig specifies connection parameters for remote queries.
type RemoteConfig struct {
	// Host is the hostname or IP address of the remote system.
	Host string

	// Port is the SSH port (default: 22).
	Port int

	// User is the SSH username.
	User string

	// AuthMethod specifies how to authenticate.
	AuthMethod AuthMethod

	// TargetOS specifies the operating system of the remote host.
	// Auto-detected if empty.
	TargetOS string

	// CommandTimeout is the timeout for individual commands (default: 5s).
	CommandTimeout time.Duration

	// MaxReconnectAttempts caps automatic reconnection attempts after the
	// connection drops. 0 means retry indefinitely.
	MaxReconnectAttempts int

	// HostKeyCallback overrides host key verification entirely when set.
	HostKeyCallback ssh.HostKeyCallback

	// KnownHostsPath is the known_hosts file used to verify the remote
	// host key. Defaults to ~/.ssh/known_hosts.
	KnownHostsPath string

	// InsecureIgnoreHostKey disables host key verification. The
	// connection is then open to man-in-the-middle interception; intended
	// for lab use only.
	InsecureIgnoreHostKey bool
}

// AuthMethod defines SSH authentication methods.
type AuthMethod interface {
	isAuthMethod()
}

// PasswordAuth authenticates using a password.
type PasswordAuth struct {
	Password string
}

func (PasswordAuth) isAuthMethod() {}

// KeyAuth authenticates using an SSH private key.
type KeyAuth struct {
	PrivateKeyPath string
	Passphrase     string // optional, for encrypted keys
}

func (KeyAuth) isAuthMethod() {}

// AgentAuth authenticates using the SSH agent.
type AgentAuth struct{}

func (AgentAuth) isAuthMethod() {}
