// Package profiling wraps runtime/pprof and runtime memory statistics
// so the collector can capture CPU and heap profiles and watch its own
// footprint while serving.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Profiler writes CPU and heap profiles for one run of the program.
// Start and Stop bracket the profiled section; both are safe for
// concurrent use.
type Profiler struct {
	config  Config
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// Config selects which profiles to write. An empty path disables that
// profile.
type Config struct {
	// CPUProfilePath is the output file for the CPU profile.
	CPUProfilePath string

	// MemProfilePath is the output file for the heap profile, written
	// on Stop.
	MemProfilePath string
}

// ProfilingEnabled reports whether any profile output is configured.
func (c Config) ProfilingEnabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != ""
}

// New creates a Profiler. Nothing is written until Start.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Start begins CPU profiling when a CPU profile path is configured.
// It fails when the profiler is already running or the output file
// cannot be created.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}

	if p.config.CPUProfilePath == "" {
		p.running = true
		return nil
	}

	f, err := os.Create(p.config.CPUProfilePath)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile file: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}

	p.cpuFile = f
	p.running = true
	return nil
}

// Stop ends CPU profiling and writes the heap profile when configured.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler is not running")
	}

	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close CPU profile file: %w", err))
		}
		p.cpuFile = nil
	}

	if p.config.MemProfilePath != "" {
		if err := writeHeapProfile(p.config.MemProfilePath); err != nil {
			errs = append(errs, err)
		}
	}

	p.running = false
	return errors.Join(errs...)
}

// IsRunning reports whether Start has been called without a matching Stop.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// writeHeapProfile forces a garbage collection first so the profile
// reflects live objects, not garbage awaiting collection.
func writeHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create memory profile file: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	return nil
}
