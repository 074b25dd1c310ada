// Package hostinfo reports fixed facts about the machine a process runs
// on: processor model, core counts, nominal clock speed, physical memory
// totals and the identity of the host. Every query reads the operating
// system directly; nothing is cached between calls.
//
// # Basic Usage
//
// Package-level functions answer one-off questions with in-band failure
// sentinels instead of errors:
//
//	fmt.Println(hostinfo.CPUArchitecture()) // "<unknown>" when undeterminable
//	logical, physical := hostinfo.CPUTotalCores()
//	if logical == hostinfo.Unavailable {
//		// counts could not be established
//	}
//
// The functions share one lazily constructed [Probe] over the local
// system. Construction is cached; the answers are not.
//
// # Probes
//
// A [Probe] bundles the same queries with configuration and a snapshot
// operation:
//
//	probe, err := hostinfo.New(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer probe.Close()
//
//	report, err := probe.Collect(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report.WriteText(os.Stdout)
//
// [NewFromPlatform] accepts any platform implementation, including one
// connected to a remote host over SSH, so the same report can describe a
// machine elsewhere.
//
// # Failure Model
//
// String queries answer [Unknown] and numeric queries answer
// [Unavailable] when the underlying source cannot be read or makes no
// sense. The sentinels are in-band by contract: callers that need the
// cause attach a [Logger] via [Options] and receive every suppressed
// error at debug level, or use the explicit error-returning layer this
// package wraps.
//
// # Semantics
//
// Clock speed is the nominal frequency in Hz, converted from the OS's
// megahertz figure by truncation; it is not a live measurement.
// CPUHyperThreading compares logical against physical counts, which
// reports SMT only on systems that expose both figures independently.
// RAMFree follows each platform's native notion of "free", so the figure
// is conservative on Linux (page cache counts as used) and closer to
// "available" elsewhere.
package hostinfo
