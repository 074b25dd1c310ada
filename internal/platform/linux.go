//go:build linux

package platform

import (
	"context"
	"sync"

	"golang.org/x/sys/unix"
)

// linuxPlatform implements Platform for Linux systems. Facts come from the
// /proc and /sys filesystems and direct system calls; nothing shells out.
type linuxPlatform struct {
	mu     sync.RWMutex
	cpu    CPUProvider
	memory MemoryProvider
	host   HostProvider
}

// NewLinuxPlatform creates a new Linux platform implementation.
func NewLinuxPlatform() Platform {
	return &linuxPlatform{}
}

func (p *linuxPlatform) Name() string {
	return "linux"
}

// Initialize wires the providers. It cannot fail: an unreadable /proc
// surfaces as ErrUnavailable from the individual queries, not here.
func (p *linuxPlatform) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cpu = newLinuxCPUProvider()
	p.memory = newLinuxMemoryProvider()
	p.host = newLinuxHostProvider()

	return nil
}

func (p *linuxPlatform) Close() error {
	return nil
}

func (p *linuxPlatform) CPU() CPUProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpu
}

func (p *linuxPlatform) Memory() MemoryProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memory
}

func (p *linuxPlatform) Host() HostProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host
}

// CurrentThreadID returns the kernel task id of the calling thread.
func (p *linuxPlatform) CurrentThreadID() (int, error) {
	return unix.Gettid(), nil
}
