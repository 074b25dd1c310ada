package hostinfo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Report is a point-in-time snapshot of every fact a Probe can answer.
// Failed queries carry their sentinel value (Unknown or Unavailable) so
// a report always has the full shape regardless of what the platform
// could deliver.
type Report struct {
	CPUArchitecture   string `json:"cpu_architecture"`
	CPULogicalCores   int    `json:"cpu_logical_cores"`
	CPUPhysicalCores  int    `json:"cpu_physical_cores"`
	CPUClockSpeedHz   int64  `json:"cpu_clock_speed_hz"`
	CPUHyperThreading bool   `json:"cpu_hyper_threading"`

	RAMTotalBytes int64 `json:"ram_total_bytes"`
	RAMFreeBytes  int64 `json:"ram_free_bytes"`

	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	OSVersion     string `json:"os_version"`
	KernelVersion string `json:"kernel_version"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	// Platform names the platform the report was collected from.
	Platform string `json:"platform"`

	// Collected is the time the snapshot was taken.
	Collected time.Time `json:"collected"`
}

// Collect gathers a full Report from the probe's platform. Individual
// query failures degrade to sentinel values in the report; the only
// error Collect itself returns is context expiry between queries.
func (p *Probe) Collect(ctx context.Context) (*Report, error) {
	start := time.Now()

	report := &Report{
		Platform:  p.platform.Name(),
		Collected: start,
	}

	report.CPUArchitecture = p.CPUArchitecture()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.CPULogicalCores, report.CPUPhysicalCores = p.CPUTotalCores()
	report.CPUHyperThreading = report.CPULogicalCores != Unavailable &&
		report.CPULogicalCores != report.CPUPhysicalCores
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.CPUClockSpeedHz = p.CPUClockSpeed()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.RAMTotalBytes = p.RAMTotal()
	report.RAMFreeBytes = p.RAMFree()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.collectIdentity(report)

	p.metrics.IncrementCollects()
	p.metrics.RecordCollectLatency(time.Since(start))
	return report, nil
}

// HostFacts is the host identity subset of a Report.
type HostFacts struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	OSVersion     string `json:"os_version"`
	KernelVersion string `json:"kernel_version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HostFacts returns the host naming and version facts. All facts come
// from one identity query: on failure every field carries its sentinel.
func (p *Probe) HostFacts() HostFacts {
	p.metrics.IncrementQueries()
	identity, err := p.platform.Host().Identity()
	if err != nil {
		p.sentinel("host identity", err)
		return HostFacts{
			Hostname:      Unknown,
			OS:            Unknown,
			OSVersion:     Unknown,
			KernelVersion: Unknown,
			UptimeSeconds: Unavailable,
		}
	}

	return HostFacts{
		Hostname:      identity.Hostname,
		OS:            identity.OS,
		OSVersion:     identity.OSVersion,
		KernelVersion: identity.KernelVersion,
		UptimeSeconds: int64(identity.Uptime.Seconds()),
	}
}

// collectIdentity fills the host identity fields of a report.
func (p *Probe) collectIdentity(report *Report) {
	facts := p.HostFacts()
	report.Hostname = facts.Hostname
	report.OS = facts.OS
	report.OSVersion = facts.OSVersion
	report.KernelVersion = facts.KernelVersion
	report.UptimeSeconds = facts.UptimeSeconds
}

// WriteText renders the report as aligned human-readable text.
func (r *Report) WriteText(w io.Writer) error {
	lines := []struct {
		label string
		value string
	}{
		{"Platform", r.Platform},
		{"Hostname", r.Hostname},
		{"OS", fmt.Sprintf("%s %s", r.OS, r.OSVersion)},
		{"Kernel", r.KernelVersion},
		{"Uptime", formatUptime(r.UptimeSeconds)},
		{"CPU", r.CPUArchitecture},
		{"Cores", formatCores(r.CPULogicalCores, r.CPUPhysicalCores, r.CPUHyperThreading)},
		{"Clock speed", formatClockSpeed(r.CPUClockSpeedHz)},
		{"RAM total", formatBytes(r.RAMTotalBytes)},
		{"RAM free", formatBytes(r.RAMFreeBytes)},
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%-12s %s\n", line.label+":", line.value); err != nil {
			return err
		}
	}
	return nil
}

// formatBytes renders a byte count in binary units (GiB, MiB).
// Sentinel values render as "unavailable".
func formatBytes(n int64) string {
	if n < 0 {
		return "unavailable"
	}
	return humanize.IBytes(uint64(n))
}

// formatClockSpeed renders a Hz figure in GHz.
func formatClockSpeed(hz int64) string {
	if hz < 0 {
		return "unavailable"
	}
	return fmt.Sprintf("%.2f GHz", float64(hz)/1e9)
}

// formatCores renders the core counts with the SMT verdict.
func formatCores(logical, physical int, smt bool) string {
	if logical == Unavailable {
		return "unavailable"
	}
	suffix := "SMT off"
	if smt {
		suffix = "SMT on"
	}
	return fmt.Sprintf("%d logical / %d physical (%s)", logical, physical, suffix)
}

// formatUptime renders seconds since boot as a duration.
func formatUptime(seconds int64) string {
	if seconds < 0 {
		return "unavailable"
	}
	return (time.Duration(seconds) * time.Second).String()
}
