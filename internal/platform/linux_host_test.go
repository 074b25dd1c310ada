//go:build linux

package platform

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestLinuxHostProvider_Identity(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "osrelease", "6.8.0-45-generic\n")
	writeTestFile(t, dir, "uptime", "86400.00 334912.22\n")

	provider := &linuxHostProvider{
		osReleasePath: filepath.Join(dir, "osrelease"),
		uptimePath:    filepath.Join(dir, "uptime"),
	}

	id, err := provider.Identity()
	if err != nil {
		t.Fatalf("Identity() failed: %v", err)
	}

	if id.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if id.OS != "Linux" {
		t.Errorf("OS = %q, want %q", id.OS, "Linux")
	}
	if id.KernelVersion != "6.8.0-45-generic" {
		t.Errorf("KernelVersion = %q, want %q", id.KernelVersion, "6.8.0-45-generic")
	}
	if id.OSVersion != id.KernelVersion {
		t.Errorf("OSVersion = %q, want kernel release %q", id.OSVersion, id.KernelVersion)
	}
	if want := 24 * time.Hour; id.Uptime != want {
		t.Errorf("Uptime = %v, want %v", id.Uptime, want)
	}
}

func TestLinuxHostProvider_IdentityMissingKernelFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "uptime", "100.00 200.00\n")

	provider := &linuxHostProvider{
		osReleasePath: filepath.Join(dir, "osrelease"),
		uptimePath:    filepath.Join(dir, "uptime"),
	}

	if _, err := provider.Identity(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Identity() error = %v, want ErrUnavailable", err)
	}
}

func TestLinuxHostProvider_IdentityBadUptime(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "osrelease", "6.8.0-45-generic\n")
	writeTestFile(t, dir, "uptime", "not numbers\n")

	provider := &linuxHostProvider{
		osReleasePath: filepath.Join(dir, "osrelease"),
		uptimePath:    filepath.Join(dir, "uptime"),
	}

	if _, err := provider.Identity(); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("Identity() error = %v, want ErrUnrecognized", err)
	}
}

func TestNewLinuxHostProviderDefaults(t *testing.T) {
	provider := newLinuxHostProvider()
	if provider.osReleasePath != "/proc/sys/kernel/osrelease" {
		t.Errorf("osReleasePath = %q", provider.osReleasePath)
	}
	if provider.uptimePath != "/proc/uptime" {
		t.Errorf("uptimePath = %q", provider.uptimePath)
	}
}
