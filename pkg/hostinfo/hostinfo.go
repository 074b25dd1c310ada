package hostinfo

import (
	"context"
	"fmt"
	"sync"

	"github.com/opd-ai/go-hostinfo/internal/platform"
)

// Sentinel results for failed queries. String queries answer Unknown,
// numeric queries answer Unavailable. Real values never collide with the
// sentinels: names are non-empty and all numeric facts are non-negative.
const (
	// Unknown is returned by string queries whose answer could not be
	// established.
	Unknown = "<unknown>"

	// Unavailable is returned by numeric queries whose answer could not
	// be established.
	Unavailable = -1
)

// Probe answers host queries over one platform implementation.
// Construction establishes the query strategy once; every call still
// reads the operating system, so answers follow reality on systems where
// memory or even processor counts change at runtime.
//
// A Probe is safe for concurrent use.
type Probe struct {
	platform platform.Platform
	logger   Logger
	metrics  *Metrics

	// owned reports whether Close should tear the platform down.
	owned bool
}

// New creates a Probe over the local operating system.
//
// Example:
//
//	probe, err := hostinfo.New(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer probe.Close()
func New(opts *Options) (*Probe, error) {
	p, err := platform.NewPlatform()
	if err != nil {
		return nil, fmt.Errorf("create platform: %w", err)
	}
	if err := p.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("initialize platform: %w", err)
	}

	probe := NewFromPlatform(p, opts)
	probe.owned = true
	return probe, nil
}

// NewFromPlatform creates a Probe over an already initialized platform,
// local or remote. The caller keeps ownership: closing the probe does
// not close the platform.
func NewFromPlatform(p platform.Platform, opts *Options) *Probe {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = DefaultMetrics()
	}

	return &Probe{
		platform: p,
		logger:   logger,
		metrics:  metrics,
	}
}

// Close releases the probe's platform if the probe created it.
// Probes built with NewFromPlatform leave the platform untouched.
func (p *Probe) Close() error {
	if !p.owned {
		return nil
	}
	return p.platform.Close()
}

// Platform returns the name of the platform backing this probe, such as
// "linux" or "remote-linux".
func (p *Probe) Platform() string {
	return p.platform.Name()
}

// Metrics returns the metrics collector backing this probe.
// Use Metrics().Snapshot() for a point-in-time copy of all metrics.
// Use Metrics().RegisterExpvar() to expose metrics via /debug/vars.
func (p *Probe) Metrics() *Metrics {
	return p.metrics
}

// CPUArchitecture returns the processor model name, or Unknown.
func (p *Probe) CPUArchitecture() string {
	p.metrics.IncrementQueries()
	arch, err := p.platform.CPU().Architecture()
	if err != nil {
		p.sentinel("cpu architecture", err)
		return Unknown
	}
	return arch
}

// CPUTotalCores returns the logical and physical core counts. The pair
// is observed together: on failure both values are Unavailable, never a
// half-correct mix.
func (p *Probe) CPUTotalCores() (logical, physical int) {
	p.metrics.IncrementQueries()
	counts, err := p.platform.CPU().Cores()
	if err != nil {
		p.sentinel("cpu cores", err)
		return Unavailable, Unavailable
	}
	return counts.Logical, counts.Physical
}

// CPULogicalCores returns the logical processor count, or Unavailable.
func (p *Probe) CPULogicalCores() int {
	logical, _ := p.CPUTotalCores()
	return logical
}

// CPUPhysicalCores returns the physical core count, or Unavailable.
func (p *Probe) CPUPhysicalCores() int {
	_, physical := p.CPUTotalCores()
	return physical
}

// CPUClockSpeed returns the nominal processor frequency in Hz, or
// Unavailable. The OS reports megahertz; fractional megahertz is
// truncated before conversion.
func (p *Probe) CPUClockSpeed() int64 {
	p.metrics.IncrementQueries()
	hz, err := p.platform.CPU().ClockSpeed()
	if err != nil {
		p.sentinel("cpu clock speed", err)
		return Unavailable
	}
	return hz
}

// CPUHyperThreading reports whether logical and physical core counts
// differ. The comparison is a heuristic: platforms that report the two
// counts from one figure always answer false, as do failed queries.
func (p *Probe) CPUHyperThreading() bool {
	logical, physical := p.CPUTotalCores()
	if logical == Unavailable || physical == Unavailable {
		return false
	}
	return logical != physical
}

// RAMTotal returns the total physical memory in bytes, or Unavailable.
func (p *Probe) RAMTotal() int64 {
	p.metrics.IncrementQueries()
	total, err := p.platform.Memory().Total()
	if err != nil {
		p.sentinel("memory total", err)
		return Unavailable
	}
	return total
}

// RAMFree returns the free physical memory in bytes, or Unavailable.
// "Free" follows the platform's native definition; see the package
// documentation.
func (p *Probe) RAMFree() int64 {
	p.metrics.IncrementQueries()
	free, err := p.platform.Memory().Free()
	if err != nil {
		p.sentinel("memory free", err)
		return Unavailable
	}
	return free
}

// CurrentThreadID returns the OS thread id of the calling thread, or
// Unavailable. The id only stays meaningful while the goroutine is
// pinned with runtime.LockOSThread; without pinning the scheduler may
// answer from a different thread on every call.
func (p *Probe) CurrentThreadID() int {
	p.metrics.IncrementQueries()
	id, err := p.platform.CurrentThreadID()
	if err != nil {
		p.sentinel("current thread id", err)
		return Unavailable
	}
	return id
}

// sentinel records a query that degraded to a sentinel value.
func (p *Probe) sentinel(op string, err error) {
	p.metrics.IncrementFailures()
	p.logger.Debug("query degraded to sentinel", "op", op, "error", err)
}

// The package-level functions answer against one lazily constructed
// probe over the local system. Constructing the probe is cached; every
// answer still reads the OS.
var (
	defaultProbe     *Probe
	defaultProbeOnce sync.Once
)

// getDefaultProbe returns the shared local probe, or nil when the local
// platform could not be constructed; callers then answer with sentinels.
func getDefaultProbe() *Probe {
	defaultProbeOnce.Do(func() {
		if probe, err := New(nil); err == nil {
			defaultProbe = probe
		}
	})
	return defaultProbe
}

// CPUArchitecture returns the local processor model name, or Unknown.
func CPUArchitecture() string {
	if p := getDefaultProbe(); p != nil {
		return p.CPUArchitecture()
	}
	return Unknown
}

// CPUTotalCores returns the local logical and physical core counts, or
// an Unavailable pair.
func CPUTotalCores() (logical, physical int) {
	if p := getDefaultProbe(); p != nil {
		return p.CPUTotalCores()
	}
	return Unavailable, Unavailable
}

// CPULogicalCores returns the local logical processor count, or Unavailable.
func CPULogicalCores() int {
	if p := getDefaultProbe(); p != nil {
		return p.CPULogicalCores()
	}
	return Unavailable
}

// CPUPhysicalCores returns the local physical core count, or Unavailable.
func CPUPhysicalCores() int {
	if p := getDefaultProbe(); p != nil {
		return p.CPUPhysicalCores()
	}
	return Unavailable
}

// CPUClockSpeed returns the local nominal processor frequency in Hz, or
// Unavailable.
func CPUClockSpeed() int64 {
	if p := getDefaultProbe(); p != nil {
		return p.CPUClockSpeed()
	}
	return Unavailable
}

// CPUHyperThreading reports whether the local logical and physical core
// counts differ.
func CPUHyperThreading() bool {
	if p := getDefaultProbe(); p != nil {
		return p.CPUHyperThreading()
	}
	return false
}

// RAMTotal returns the local total physical memory in bytes, or Unavailable.
func RAMTotal() int64 {
	if p := getDefaultProbe(); p != nil {
		return p.RAMTotal()
	}
	return Unavailable
}

// RAMFree returns the local free physical memory in bytes, or Unavailable.
func RAMFree() int64 {
	if p := getDefaultProbe(); p != nil {
		return p.RAMFree()
	}
	return Unavailable
}

// CurrentThreadID returns the OS thread id of the calling thread, or
// Unavailable.
func CurrentThreadID() int {
	if p := getDefaultProbe(); p != nil {
		return p.CurrentThreadID()
	}
	return Unavailable
}
