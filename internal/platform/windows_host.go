//go:build windows

package platform

import (
	"fmt"
	"os"
	"time"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

// win32OperatingSystem mirrors the queried fields of the WMI
// Win32_OperatingSystem class. Field names must match the WMI property
// names for the decoder to fill them.
type win32OperatingSystem struct {
	Caption string
	Version string
}

// windowsHostProvider reads host identity from WMI and kernel32.
// The WMI query function is injectable for testing.
type windowsHostProvider struct {
	wmiQuery func(query string, dst any, connectServerArgs ...any) error
}

func newWindowsHostProvider() *windowsHostProvider {
	return &windowsHostProvider{wmiQuery: wmi.Query}
}

// Identity returns the hostname, the marketing OS name and version from
// WMI, the kernel build from RtlGetVersion, and uptime from
// GetTickCount64.
func (h *windowsHostProvider) Identity() (*HostIdentity, error) {
	const op = "host identity"

	hostname, err := os.Hostname()
	if err != nil {
		return nil, unavailable(op, err)
	}

	var entries []win32OperatingSystem
	if err := h.wmiQuery("SELECT Caption, Version FROM Win32_OperatingSystem", &entries); err != nil {
		return nil, unavailable(op, err)
	}
	if len(entries) == 0 {
		return nil, unrecognizedf(op, "empty Win32_OperatingSystem result")
	}

	ver := windows.RtlGetVersion()
	kernel := fmt.Sprintf("%d.%d.%d", ver.MajorVersion, ver.MinorVersion, ver.BuildNumber)

	return &HostIdentity{
		Hostname:      hostname,
		OS:            entries[0].Caption,
		OSVersion:     entries[0].Version,
		KernelVersion: kernel,
		Uptime:        time.Duration(windows.GetTickCount64()) * time.Millisecond,
	}, nil
}
