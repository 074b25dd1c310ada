// Package platform provides cross-platform host introspection for go-hostinfo.
//
// The platform package defines interfaces and types for querying hardware
// and host facts across different operating systems: processor identity and
// topology, nominal clock speed, physical memory totals, the caller's OS
// thread id, and host naming/version information. Platform-specific
// implementations exist for Linux and Windows, with a portable fallback for
// other systems and an SSH-backed implementation for remote hosts.
//
// # Architecture
//
// The package uses a provider pattern where each platform implements the
// Platform interface and supplies concrete implementations of the provider
// interfaces (CPUProvider, MemoryProvider, HostProvider). This design
// allows for:
//
//   - Platform-agnostic query code
//   - Easy testing with fake sources and mock implementations
//   - Remote hosts queried through the same interface as the local one
//   - Clean separation between interface and implementation
//
// Every operation is a stateless point-in-time read. Nothing is cached
// between calls and nothing refreshes in the background; two consecutive
// calls perform two reads of the OS source.
//
// # Failure model
//
// Queries return (value, error). A non-nil error is always a *QueryError
// classified as either ErrUnavailable (the source could not be read) or
// ErrUnrecognized (the source was read but its contents did not match the
// expected shape), with the underlying cause preserved in the chain:
//
//	arch, err := p.CPU().Architecture()
//	if errors.Is(err, platform.ErrUnavailable) {
//	    // /proc, registry or syscall inaccessible
//	}
//
// No query panics, and no query validates the plausibility of what the OS
// reports; values pass through as observed.
//
// # Usage
//
// Creating a platform for the current OS:
//
//	p, err := platform.NewPlatform()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Initialize(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	arch, _ := p.CPU().Architecture()
//	cores, _ := p.CPU().Cores()
//	fmt.Printf("%s (%d logical / %d physical)\n", arch, cores.Logical, cores.Physical)
//
// # Thread Safety
//
// All Platform and Provider implementations are safe for concurrent use
// from multiple goroutines unless otherwise documented.
package platform
