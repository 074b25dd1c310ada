package profiling

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// MemorySnapshot is a point-in-time measurement of the process's own
// memory and goroutine usage.
type MemorySnapshot struct {
	Timestamp      time.Time
	HeapAlloc      uint64 // bytes of allocated heap objects
	HeapSys        uint64 // bytes of heap memory obtained from the OS
	HeapObjects    uint64 // number of allocated heap objects
	StackInuse     uint64 // bytes in stack spans
	GoroutineCount int
	NumGC          uint32
}

// MemoryGrowth describes the change between two snapshots.
type MemoryGrowth struct {
	Duration         time.Duration
	HeapAllocDelta   int64 // positive means growth
	HeapObjectsDelta int64
	GoroutineDelta   int
	GrowthRatePerSec float64 // bytes per second
	PotentialLeak    bool
	LeakReason       string // set when PotentialLeak is true
}

// LeakDetectorConfig tunes the memory watchdog.
type LeakDetectorConfig struct {
	// SampleInterval is the time between automatic snapshots.
	SampleInterval time.Duration

	// MaxSnapshots bounds the retained history; the oldest snapshot is
	// dropped when the limit is reached.
	MaxSnapshots int

	// LeakThresholdBytes is the sustained growth rate, in bytes per
	// second, above which growth is flagged as a potential leak.
	LeakThresholdBytes int64

	// GoroutineLeakThreshold is the net goroutine increase above which
	// growth is flagged as a potential goroutine leak.
	GoroutineLeakThreshold int
}

// DefaultLeakDetectorConfig returns the defaults used by the serve mode:
// a snapshot every ten seconds, 1 MiB/s sustained heap growth or ten net
// goroutines flags a leak.
func DefaultLeakDetectorConfig() LeakDetectorConfig {
	return LeakDetectorConfig{
		SampleInterval:         10 * time.Second,
		MaxSnapshots:           100,
		LeakThresholdBytes:     1024 * 1024,
		GoroutineLeakThreshold: 10,
	}
}

// MemoryLeakDetector samples the process's memory usage over time and
// flags sustained growth. It watches the collector itself, not the host
// being reported on.
type MemoryLeakDetector struct {
	config    LeakDetectorConfig
	snapshots []MemorySnapshot
	running   bool
	stopChan  chan struct{}
	doneChan  chan struct{}
	mu        sync.RWMutex
	onLeak    func(growth MemoryGrowth)
}

// NewMemoryLeakDetector creates a detector. Zero or negative config
// fields fall back to the defaults.
func NewMemoryLeakDetector(config LeakDetectorConfig) *MemoryLeakDetector {
	defaults := DefaultLeakDetectorConfig()
	if config.SampleInterval <= 0 {
		config.SampleInterval = defaults.SampleInterval
	}
	if config.MaxSnapshots <= 0 {
		config.MaxSnapshots = defaults.MaxSnapshots
	}
	if config.LeakThresholdBytes <= 0 {
		config.LeakThresholdBytes = defaults.LeakThresholdBytes
	}
	if config.GoroutineLeakThreshold <= 0 {
		config.GoroutineLeakThreshold = defaults.GoroutineLeakThreshold
	}

	return &MemoryLeakDetector{
		config:    config,
		snapshots: make([]MemorySnapshot, 0, config.MaxSnapshots),
	}
}

// TakeSnapshot records and returns the current memory state.
func (d *MemoryLeakDetector) TakeSnapshot() MemorySnapshot {
	snapshot := CurrentMemoryStats()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.snapshots = append(d.snapshots, snapshot)
	if len(d.snapshots) > d.config.MaxSnapshots {
		d.snapshots = d.snapshots[1:]
	}

	return snapshot
}

// Snapshots returns a copy of the retained history.
func (d *MemoryLeakDetector) Snapshots() []MemorySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]MemorySnapshot, len(d.snapshots))
	copy(result, d.snapshots)
	return result
}

// SnapshotCount returns the number of retained snapshots.
func (d *MemoryLeakDetector) SnapshotCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.snapshots)
}

// ClearSnapshots drops the retained history.
func (d *MemoryLeakDetector) ClearSnapshots() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshots = d.snapshots[:0]
}

// AnalyzeGrowth compares the oldest and newest snapshots. It returns nil
// when fewer than two snapshots exist.
func (d *MemoryLeakDetector) AnalyzeGrowth() *MemoryGrowth {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.snapshots) < 2 {
		return nil
	}
	return d.analyzeGrowthBetween(d.snapshots[0], d.snapshots[len(d.snapshots)-1])
}

func (d *MemoryLeakDetector) analyzeGrowthBetween(first, last MemorySnapshot) *MemoryGrowth {
	duration := last.Timestamp.Sub(first.Timestamp)
	if duration <= 0 {
		return nil
	}

	heapDelta := int64(last.HeapAlloc) - int64(first.HeapAlloc)
	objectsDelta := int64(last.HeapObjects) - int64(first.HeapObjects)
	goroutineDelta := last.GoroutineCount - first.GoroutineCount
	growthRate := float64(heapDelta) / duration.Seconds()

	growth := &MemoryGrowth{
		Duration:         duration,
		HeapAllocDelta:   heapDelta,
		HeapObjectsDelta: objectsDelta,
		GoroutineDelta:   goroutineDelta,
		GrowthRatePerSec: growthRate,
	}

	if growthRate > float64(d.config.LeakThresholdBytes) {
		growth.PotentialLeak = true
		growth.LeakReason = fmt.Sprintf(
			"sustained heap growth of %s/s exceeds threshold of %s/s",
			humanize.IBytes(uint64(growthRate)),
			humanize.IBytes(uint64(d.config.LeakThresholdBytes)),
		)
	} else if goroutineDelta > d.config.GoroutineLeakThreshold {
		growth.PotentialLeak = true
		growth.LeakReason = fmt.Sprintf(
			"goroutine count increased by %d (threshold: %d), possible goroutine leak",
			goroutineDelta, d.config.GoroutineLeakThreshold,
		)
	}

	return growth
}

// Start begins automatic snapshot collection at the configured interval.
func (d *MemoryLeakDetector) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("leak detector is already running")
	}

	d.stopChan = make(chan struct{})
	d.doneChan = make(chan struct{})
	d.running = true

	go d.collectLoop()

	return nil
}

// Stop halts automatic snapshot collection and waits for the sampling
// goroutine to finish.
func (d *MemoryLeakDetector) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return fmt.Errorf("leak detector is not running")
	}
	close(d.stopChan)
	d.running = false
	d.mu.Unlock()

	<-d.doneChan
	return nil
}

// IsRunning reports whether automatic collection is active.
func (d *MemoryLeakDetector) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// SetOnLeakCallback registers a function called when a sample flags a
// potential leak. Nil disables the callback.
func (d *MemoryLeakDetector) SetOnLeakCallback(callback func(growth MemoryGrowth)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onLeak = callback
}

func (d *MemoryLeakDetector) collectLoop() {
	defer close(d.doneChan)

	ticker := time.NewTicker(d.config.SampleInterval)
	defer ticker.Stop()

	d.TakeSnapshot()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.TakeSnapshot()

			if growth := d.AnalyzeGrowth(); growth != nil && growth.PotentialLeak {
				d.mu.RLock()
				callback := d.onLeak
				d.mu.RUnlock()

				if callback != nil {
					callback(*growth)
				}
			}
		}
	}
}

// CurrentMemoryStats measures the current memory state without storing
// a snapshot.
func CurrentMemoryStats() MemorySnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MemorySnapshot{
		Timestamp:      time.Now(),
		HeapAlloc:      memStats.HeapAlloc,
		HeapSys:        memStats.HeapSys,
		HeapObjects:    memStats.HeapObjects,
		StackInuse:     memStats.StackInuse,
		GoroutineCount: runtime.NumGoroutine(),
		NumGC:          memStats.NumGC,
	}
}

func (s MemorySnapshot) String() string {
	return fmt.Sprintf(
		"Memory Report at %s:\n"+
			"  Heap Allocated: %s\n"+
			"  Heap System:    %s\n"+
			"  Heap Objects:   %d\n"+
			"  Stack In Use:   %s\n"+
			"  Goroutines:     %d\n"+
			"  GC Cycles:      %d",
		s.Timestamp.Format(time.RFC3339),
		humanize.IBytes(s.HeapAlloc),
		humanize.IBytes(s.HeapSys),
		s.HeapObjects,
		humanize.IBytes(s.StackInuse),
		s.GoroutineCount,
		s.NumGC,
	)
}

func (g MemoryGrowth) String() string {
	direction := "increased"
	if g.HeapAllocDelta < 0 {
		direction = "decreased"
	}

	leakStatus := "No leak detected"
	if g.PotentialLeak {
		leakStatus = fmt.Sprintf("POTENTIAL LEAK: %s", g.LeakReason)
	}

	return fmt.Sprintf(
		"Memory Growth Analysis (over %s):\n"+
			"  Heap %s by %s (%.2f KiB/s)\n"+
			"  Heap Objects: %+d\n"+
			"  Goroutines:   %+d\n"+
			"  Status:       %s",
		g.Duration.Round(time.Second),
		direction,
		humanize.IBytes(uint64(abs(g.HeapAllocDelta))),
		g.GrowthRatePerSec/humanize.KiByte,
		g.HeapObjectsDelta,
		g.GoroutineDelta,
		leakStatus,
	)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
