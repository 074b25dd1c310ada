//go:build windows

package platform

import (
	"context"
	"sync"
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	modKernel32                        = syscall.NewLazyDLL("kernel32.dll")
	procGlobalMemoryStatusEx           = modKernel32.NewProc("GlobalMemoryStatusEx")
	procGetLogicalProcessorInformation = modKernel32.NewProc("GetLogicalProcessorInformation")
)

// windowsPlatform implements Platform for Windows systems. Facts come from
// the registry, direct kernel32 calls and WMI.
type windowsPlatform struct {
	mu     sync.RWMutex
	cpu    CPUProvider
	memory MemoryProvider
	host   HostProvider
}

// NewWindowsPlatform creates a new Windows platform implementation.
func NewWindowsPlatform() Platform {
	return &windowsPlatform{}
}

func (p *windowsPlatform) Name() string {
	return "windows"
}

// Initialize wires the providers. It cannot fail: API or registry errors
// surface as ErrUnavailable from the individual queries, not here.
func (p *windowsPlatform) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cpu = newWindowsCPUProvider()
	p.memory = newWindowsMemoryProvider()
	p.host = newWindowsHostProvider()

	return nil
}

func (p *windowsPlatform) Close() error {
	return nil
}

func (p *windowsPlatform) CPU() CPUProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpu
}

func (p *windowsPlatform) Memory() MemoryProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memory
}

func (p *windowsPlatform) Host() HostProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host
}

// CurrentThreadID returns the Windows thread identifier of the calling
// thread.
func (p *windowsPlatform) CurrentThreadID() (int, error) {
	return int(windows.GetCurrentThreadId()), nil
}
