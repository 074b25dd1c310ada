//go:build windows

package platform

import (
	"errors"
	"strings"
	"testing"
)

func TestWindowsHostProvider_Identity(t *testing.T) {
	provider := &windowsHostProvider{
		wmiQuery: func(query string, dst any, connectServerArgs ...any) error {
			if !strings.Contains(query, "Win32_OperatingSystem") {
				t.Errorf("Unexpected WMI query: %q", query)
			}
			entries := dst.(*[]win32OperatingSystem)
			*entries = append(*entries, win32OperatingSystem{
				Caption: "Microsoft Windows 11 Pro",
				Version: "10.0.22631",
			})
			return nil
		},
	}

	id, err := provider.Identity()
	if err != nil {
		t.Fatalf("Identity() failed: %v", err)
	}

	if id.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if id.OS != "Microsoft Windows 11 Pro" {
		t.Errorf("OS = %q, want caption from WMI", id.OS)
	}
	if id.OSVersion != "10.0.22631" {
		t.Errorf("OSVersion = %q, want version from WMI", id.OSVersion)
	}
	// RtlGetVersion reports major.minor.build.
	if strings.Count(id.KernelVersion, ".") != 2 {
		t.Errorf("KernelVersion = %q, want major.minor.build", id.KernelVersion)
	}
	if id.Uptime <= 0 {
		t.Errorf("Uptime = %v, want > 0", id.Uptime)
	}
}

func TestWindowsHostProvider_IdentityWMIFailure(t *testing.T) {
	cause := errors.New("ole initialization failed")
	provider := &windowsHostProvider{
		wmiQuery: func(query string, dst any, connectServerArgs ...any) error {
			return cause
		},
	}

	_, err := provider.Identity()
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Identity() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause lost from error chain")
	}
}

func TestWindowsHostProvider_IdentityEmptyResult(t *testing.T) {
	provider := &windowsHostProvider{
		wmiQuery: func(query string, dst any, connectServerArgs ...any) error {
			return nil
		},
	}

	if _, err := provider.Identity(); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("Identity() error = %v, want ErrUnrecognized", err)
	}
}
