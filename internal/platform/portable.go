//go:build !linux && !windows

package platform

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// portablePlatform implements Platform for systems without a native
// implementation (macOS, the BSDs, Solaris) on top of gopsutil.
type portablePlatform struct {
	mu     sync.RWMutex
	cpu    CPUProvider
	memory MemoryProvider
	host   HostProvider
}

// NewPortablePlatform creates a gopsutil-backed platform implementation.
func NewPortablePlatform() Platform {
	return &portablePlatform{}
}

func (p *portablePlatform) Name() string {
	return runtime.GOOS
}

func (p *portablePlatform) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cpu = &portableCPUProvider{}
	p.memory = &portableMemoryProvider{}
	p.host = &portableHostProvider{}

	return nil
}

func (p *portablePlatform) Close() error {
	return nil
}

func (p *portablePlatform) CPU() CPUProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpu
}

func (p *portablePlatform) Memory() MemoryProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.memory
}

func (p *portablePlatform) Host() HostProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.host
}

// CurrentThreadID is unavailable here: there is no portable way to read
// an OS thread id without cgo.
func (p *portablePlatform) CurrentThreadID() (int, error) {
	return 0, unavailable("current thread id", nil)
}

// portableCPUProvider answers CPU queries via gopsutil.
type portableCPUProvider struct{}

func (c *portableCPUProvider) Architecture() (string, error) {
	const op = "cpu architecture"

	infos, err := cpu.Info()
	if err != nil {
		return "", unavailable(op, err)
	}
	for _, info := range infos {
		if info.ModelName != "" {
			return info.ModelName, nil
		}
	}
	return "", unrecognizedf(op, "no model name among %d cpu entries", len(infos))
}

func (c *portableCPUProvider) Cores() (CoreCount, error) {
	const op = "cpu cores"

	logical, err := cpu.Counts(true)
	if err != nil {
		return CoreCount{}, unavailable(op, err)
	}
	physical, err := cpu.Counts(false)
	if err != nil {
		return CoreCount{}, unavailable(op, err)
	}
	if logical <= 0 || physical <= 0 {
		return CoreCount{}, unrecognizedf(op, "non-positive core counts %d/%d", logical, physical)
	}
	return CoreCount{Logical: logical, Physical: physical}, nil
}

// ClockSpeed reports gopsutil's frequency figure. Apple Silicon Macs do
// not expose one, which surfaces as ErrUnrecognized rather than a guess.
func (c *portableCPUProvider) ClockSpeed() (int64, error) {
	const op = "cpu clock speed"

	infos, err := cpu.Info()
	if err != nil {
		return 0, unavailable(op, err)
	}
	for _, info := range infos {
		if info.Mhz > 0 {
			return int64(info.Mhz) * hzPerMHz, nil
		}
	}
	return 0, unrecognizedf(op, "no frequency among %d cpu entries", len(infos))
}

// portableMemoryProvider answers memory queries via gopsutil.
type portableMemoryProvider struct{}

func (m *portableMemoryProvider) Total() (int64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, unavailable("memory total", err)
	}
	return int64(vm.Total), nil
}

// Free returns gopsutil's Available figure, matching the availability
// semantics of the native Windows path.
func (m *portableMemoryProvider) Free() (int64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, unavailable("memory free", err)
	}
	return int64(vm.Available), nil
}

// portableHostProvider answers host identity queries via gopsutil.
type portableHostProvider struct{}

func (h *portableHostProvider) Identity() (*HostIdentity, error) {
	const op = "host identity"

	info, err := host.Info()
	if err != nil {
		return nil, unavailable(op, err)
	}

	name := info.Platform
	if name == "" {
		name = info.OS
	}
	return &HostIdentity{
		Hostname:      info.Hostname,
		OS:            name,
		OSVersion:     info.PlatformVersion,
		KernelVersion: info.KernelVersion,
		Uptime:        time.Duration(info.Uptime) * time.Second,
	}, nil
}
