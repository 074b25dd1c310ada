//go:build linux

package platform

import (
	"fmt"
	"os"
)

// linuxHostProvider reads host identity from the proc filesystem and the
// hostname syscall. Paths are injectable for testing.
type linuxHostProvider struct {
	osReleasePath string
	uptimePath    string
}

// newLinuxHostProvider creates a provider reading from the standard paths.
func newLinuxHostProvider() *linuxHostProvider {
	return &linuxHostProvider{
		osReleasePath: "/proc/sys/kernel/osrelease",
		uptimePath:    "/proc/uptime",
	}
}

// Identity returns hostname, kernel release and uptime. The OS name is
// fixed and OSVersion mirrors the kernel release; Linux has no separate
// OS build string at this level.
func (h *linuxHostProvider) Identity() (*HostIdentity, error) {
	const op = "host identity"

	hostname, err := os.Hostname()
	if err != nil {
		return nil, unavailable(op, err)
	}

	kernel, ok := readStringFile(h.osReleasePath)
	if !ok {
		return nil, unavailable(op, fmt.Errorf("read %s", h.osReleasePath))
	}

	raw, ok := readStringFile(h.uptimePath)
	if !ok {
		return nil, unavailable(op, fmt.Errorf("read %s", h.uptimePath))
	}
	uptime, err := uptimeDuration(raw)
	if err != nil {
		return nil, unrecognized(op, err)
	}

	return &HostIdentity{
		Hostname:      hostname,
		OS:            "Linux",
		OSVersion:     kernel,
		KernelVersion: kernel,
		Uptime:        uptime,
	}, nil
}
