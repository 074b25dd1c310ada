package platform

import (
	"context"
	"time"
)

// Platform defines the interface for OS-specific host queries.
// Each supported operating system implements this interface to provide
// unified access to hardware and host facts.
//
// Every query is a point-in-time read of the underlying OS source.
// Implementations never cache results between calls.
type Platform interface {
	// Name returns the platform identifier (e.g., "linux", "windows", "remote-linux").
	Name() string

	// Initialize prepares the platform for queries. Local platforms never
	// fail here; the remote platform dials its SSH connection.
	Initialize(ctx context.Context) error

	// Close releases any platform-specific resources.
	Close() error

	// CPU returns the CPU query provider for this platform.
	CPU() CPUProvider

	// Memory returns the physical memory query provider for this platform.
	Memory() MemoryProvider

	// Host returns the host identity provider for this platform.
	Host() HostProvider

	// CurrentThreadID returns the OS identifier of the thread the calling
	// goroutine is executing on. The value is only stable while the
	// goroutine is pinned with runtime.LockOSThread; unpinned goroutines
	// migrate between threads and may observe different ids across calls.
	// Platforms without a thread id mechanism return ErrUnavailable.
	CurrentThreadID() (int, error)
}

// CPUProvider defines the interface for CPU fact queries.
type CPUProvider interface {
	// Architecture returns the processor model string as reported by the
	// OS (e.g. "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz").
	Architecture() (string, error)

	// Cores returns logical and physical core counts observed together:
	// either both values are known or neither is. A partially answered
	// pair is never returned.
	Cores() (CoreCount, error)

	// ClockSpeed returns the reported CPU frequency in Hz. Sources that
	// report MHz are truncated to whole MHz before conversion.
	ClockSpeed() (int64, error)
}

// MemoryProvider defines the interface for physical memory queries.
type MemoryProvider interface {
	// Total returns the total physical memory in bytes.
	Total() (int64, error)

	// Free returns the unused physical memory in bytes. The exact meaning
	// is platform-native: free memory on Linux (sysinfo freeram),
	// available memory on Windows (ullAvailPhys). No normalization is
	// applied across platforms.
	Free() (int64, error)
}

// HostProvider defines the interface for host identity queries.
type HostProvider interface {
	// Identity returns naming and version facts about the host.
	Identity() (*HostIdentity, error)
}

// CoreCount holds the CPU core counts observed by one Cores query.
//
// On Linux both fields carry the online-processor count, so they are
// always equal there; distinguishing hardware cores from SMT siblings
// requires the Windows topology query.
type CoreCount struct {
	// Logical is the number of logical processors (hardware threads).
	Logical int

	// Physical is the number of physical cores.
	Physical int
}

// HyperThreading reports whether the counts suggest SMT is active.
// It is a heuristic: it compares logical against physical and therefore
// always reports false on platforms where the two are collected from the
// same source (Linux, remote Linux).
func (c CoreCount) HyperThreading() bool {
	return c.Logical != c.Physical
}

// HostIdentity contains naming and version facts about a host.
type HostIdentity struct {
	// Hostname is the host's own name.
	Hostname string

	// OS is the human-readable operating system name
	// (e.g. "Linux", "Microsoft Windows 11 Pro").
	OS string

	// OSVersion is the OS release or build string. On Linux this equals
	// KernelVersion.
	OSVersion string

	// KernelVersion is the kernel release string (uname -r on Unix,
	// major.minor.build on Windows).
	KernelVersion string

	// Uptime is the time elapsed since boot.
	Uptime time.Duration
}
