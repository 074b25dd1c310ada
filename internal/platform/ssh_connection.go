package platform

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/ssh"
)

// ConnectionState describes the lifecycle stage of a managed SSH connection.
type ConnectionState int32

const (
	// ConnectionStateDisconnected indicates no active connection.
	ConnectionStateDisconnected ConnectionState = iota
	// ConnectionStateConnecting indicates the initial dial is in progress.
	ConnectionStateConnecting
	// ConnectionStateConnected indicates an active connection.
	ConnectionStateConnected
	// ConnectionStateReconnecting indicates the connection was lost and a
	// reconnection attempt is in progress.
	ConnectionStateReconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionStateDisconnected:
		return "disconnected"
	case ConnectionStateConnecting:
		return "connecting"
	case ConnectionStateConnected:
		return "connected"
	case ConnectionStateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// ConnectionStats is a point-in-time snapshot of connection counters.
type ConnectionStats struct {
	State             ConnectionState
	ConnectedSince    time.Time
	ReconnectAttempts int64
	TotalReconnects   int64
	LastError         error
	LastErrorTime     time.Time
	SessionsCreated   int64
	KeepalivesSent    int64
	KeepalivesFailed  int64
}

// SSHConnectionConfig tunes keepalive probing and automatic reconnection.
type SSHConnectionConfig struct {
	// KeepAliveInterval is the interval between keepalive probes.
	// Default 30 seconds. A negative value disables probing.
	KeepAliveInterval time.Duration

	// KeepAliveTimeout bounds how long a probe waits for any response.
	// Default 15 seconds.
	KeepAliveTimeout time.Duration

	// MaxReconnectAttempts caps reconnection attempts after a lost
	// connection. 0 means retry indefinitely.
	MaxReconnectAttempts int

	// InitialReconnectDelay is the delay before the first reconnection
	// attempt. Default 1 second.
	InitialReconnectDelay time.Duration

	// MaxReconnectDelay caps the backoff between reconnection attempts.
	// Default 5 minutes.
	MaxReconnectDelay time.Duration

	// OnStateChange is called after every state transition.
	OnStateChange func(from, to ConnectionState)
}

// sshConnectionManager maintains a single SSH client with keepalive
// probing and automatic reconnection, so long-running consumers keep
// querying through transient network failures without re-dialing
// themselves.
type sshConnectionManager struct {
	config    SSHConnectionConfig
	sshConfig *ssh.ClientConfig
	address   string
	client    *ssh.Client
	mu        sync.RWMutex
	state     atomic.Int32
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	connectedSince    time.Time
	reconnectAttempts atomic.Int64
	totalReconnects   atomic.Int64
	lastError         error
	lastErrorTime     time.Time
	sessionsCreated   atomic.Int64
	keepalivesSent    atomic.Int64
	keepalivesFailed  atomic.Int64
}

func newSSHConnectionManager(address string, sshConfig *ssh.ClientConfig, config SSHConnectionConfig) *sshConnectionManager {
	if config.KeepAliveInterval == 0 {
		config.KeepAliveInterval = 30 * time.Second
	}
	if config.KeepAliveTimeout == 0 {
		config.KeepAliveTimeout = 15 * time.Second
	}
	if config.InitialReconnectDelay == 0 {
		config.InitialReconnectDelay = 1 * time.Second
	}
	if config.MaxReconnectDelay == 0 {
		config.MaxReconnectDelay = 5 * time.Minute
	}

	return &sshConnectionManager{
		config:    config,
		sshConfig: sshConfig,
		address:   address,
	}
}

// Connect dials the remote host and starts the keepalive loop. The
// manager owns the connection from here until Close; the dial itself is
// bounded by the ssh.ClientConfig timeout, not by any caller context.
func (m *sshConnectionManager) Connect() error {
	if !m.setState(ConnectionStateDisconnected, ConnectionStateConnecting) {
		return fmt.Errorf("connect already in progress")
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	client, err := ssh.Dial("tcp", m.address, m.sshConfig)
	if err != nil {
		m.setState(ConnectionStateConnecting, ConnectionStateDisconnected)
		m.setLastError(err)
		return fmt.Errorf("failed to connect to %s: %w", m.address, err)
	}

	m.mu.Lock()
	m.client = client
	m.connectedSince = time.Now()
	m.mu.Unlock()

	m.setState(ConnectionStateConnecting, ConnectionStateConnected)

	if m.config.KeepAliveInterval > 0 {
		m.wg.Add(1)
		go m.keepaliveLoop()
	}

	return nil
}

// Close stops the background loops and closes the client.
func (m *sshConnectionManager) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if s := ConnectionState(m.state.Load()); s != ConnectionStateDisconnected {
		m.setState(s, ConnectionStateDisconnected)
	}

	if client != nil {
		return client.Close()
	}
	return nil
}

// NewSession opens a session for a single command. SSH sessions cannot
// be reused once a command completes, so every command gets a fresh one.
// A failure that looks like a dead transport triggers the reconnect
// loop in the background.
func (m *sshConnectionManager) NewSession() (*ssh.Session, error) {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	if client == nil {
		return nil, fmt.Errorf("not connected")
	}

	session, err := client.NewSession()
	if err != nil {
		if m.isConnectionError(err) {
			go m.handleConnectionFailure(err)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.sessionsCreated.Add(1)
	return session, nil
}

// State returns the current connection state.
func (m *sshConnectionManager) State() ConnectionState {
	return ConnectionState(m.state.Load())
}

// Stats returns a snapshot of the connection counters.
func (m *sshConnectionManager) Stats() ConnectionStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return ConnectionStats{
		State:             ConnectionState(m.state.Load()),
		ConnectedSince:    m.connectedSince,
		ReconnectAttempts: m.reconnectAttempts.Load(),
		TotalReconnects:   m.totalReconnects.Load(),
		LastError:         m.lastError,
		LastErrorTime:     m.lastErrorTime,
		SessionsCreated:   m.sessionsCreated.Load(),
		KeepalivesSent:    m.keepalivesSent.Load(),
		KeepalivesFailed:  m.keepalivesFailed.Load(),
	}
}

// IsHealthy reports whether the connection is established and not in
// the middle of a reconnect.
func (m *sshConnectionManager) IsHealthy() bool {
	return ConnectionState(m.state.Load()) == ConnectionStateConnected
}

func (m *sshConnectionManager) keepaliveLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.sendKeepalive(); err != nil {
				m.keepalivesFailed.Add(1)
				log.Printf("SSH keepalive failed for %s: %v", m.address, err)
				go m.handleConnectionFailure(err)
			} else {
				m.keepalivesSent.Add(1)
			}
		}
	}
}

// sendKeepalive probes the transport with an SSH global request. Any
// reply, including a rejection, proves the connection is alive; only a
// timeout counts as failure.
func (m *sshConnectionManager) sendKeepalive() error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("not connected")
	}

	ctx, cancel := context.WithTimeout(m.ctx, m.config.KeepAliveTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := client.SendRequest("keepalive@golang.org", true, nil)
		done <- err
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("keepalive timeout")
	}
}

// handleConnectionFailure moves the connection into the reconnecting
// state and starts the reconnect loop. Concurrent callers race on the
// state transition; exactly one wins and the rest return.
func (m *sshConnectionManager) handleConnectionFailure(err error) {
	m.setLastError(err)

	currentState := ConnectionState(m.state.Load())
	if currentState == ConnectionStateReconnecting || currentState == ConnectionStateDisconnected {
		return
	}

	if !m.setState(currentState, ConnectionStateReconnecting) {
		return
	}

	m.mu.Lock()
	if m.client != nil {
		_ = m.client.Close()
		m.client = nil
	}
	m.mu.Unlock()

	m.wg.Add(1)
	go m.reconnectLoop()
}

// reconnectLoop re-dials with growing delays until it succeeds, the
// attempt limit is reached, or the manager is closed.
func (m *sshConnectionManager) reconnectLoop() {
	defer m.wg.Done()

	delay := m.config.InitialReconnectDelay
	attempts := int64(0)

	for {
		select {
		case <-m.ctx.Done():
			m.setState(ConnectionStateReconnecting, ConnectionStateDisconnected)
			return
		default:
		}

		attempts++
		m.reconnectAttempts.Store(attempts)

		if m.config.MaxReconnectAttempts > 0 && int(attempts) > m.config.MaxReconnectAttempts {
			log.Printf("SSH max reconnection attempts (%d) reached for %s",
				m.config.MaxReconnectAttempts, m.address)
			m.setState(ConnectionStateReconnecting, ConnectionStateDisconnected)
			return
		}

		log.Printf("SSH reconnecting to %s (attempt %d, delay %v)", m.address, attempts, delay)

		client, err := ssh.Dial("tcp", m.address, m.sshConfig)
		if err != nil {
			m.setLastError(err)
			log.Printf("SSH reconnection failed for %s: %v", m.address, err)

			select {
			case <-m.ctx.Done():
				m.setState(ConnectionStateReconnecting, ConnectionStateDisconnected)
				return
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * 1.5)
			if delay > m.config.MaxReconnectDelay {
				delay = m.config.MaxReconnectDelay
			}
			continue
		}

		m.mu.Lock()
		m.client = client
		m.connectedSince = time.Now()
		m.mu.Unlock()

		m.totalReconnects.Add(1)
		m.reconnectAttempts.Store(0)
		m.setState(ConnectionStateReconnecting, ConnectionStateConnected)
		log.Printf("SSH reconnected to %s after %d attempts", m.address, attempts)
		return
	}
}

// setState transitions between states atomically. It returns false when
// the current state is not the expected one, which means another
// goroutine already moved the state.
func (m *sshConnectionManager) setState(from, to ConnectionState) bool {
	if m.state.CompareAndSwap(int32(from), int32(to)) {
		if m.config.OnStateChange != nil {
			m.config.OnStateChange(from, to)
		}
		return true
	}
	return false
}

func (m *sshConnectionManager) setLastError(err error) {
	m.mu.Lock()
	m.lastError = err
	m.lastErrorTime = time.Now()
	m.mu.Unlock()
}

// isConnectionError reports whether an error indicates a dead transport
// rather than an ordinary command failure.
func (m *sshConnectionManager) isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"timeout",
		"eof",
		"use of closed network connection",
		"no route to host",
		"network is unreachable",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
