//go:build linux

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTestFile creates a file named name under dir with the given content.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestLinuxCPUProvider_Architecture(t *testing.T) {
	procDir := t.TempDir()
	writeTestFile(t, procDir, "cpuinfo", sampleCPUInfo)

	provider := &linuxCPUProvider{procMount: procDir}

	arch, err := provider.Architecture()
	if err != nil {
		t.Fatalf("Architecture() failed: %v", err)
	}
	if want := "Intel(R) Core(TM) i7-9700K CPU @ 3.60GHz"; arch != want {
		t.Errorf("Architecture() = %q, want %q", arch, want)
	}
}

func TestLinuxCPUProvider_ArchitectureNoModelName(t *testing.T) {
	procDir := t.TempDir()
	writeTestFile(t, procDir, "cpuinfo", armCPUInfo)

	provider := &linuxCPUProvider{procMount: procDir}

	if _, err := provider.Architecture(); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("Architecture() error = %v, want ErrUnrecognized", err)
	}
}

func TestLinuxCPUProvider_ArchitectureMissingFile(t *testing.T) {
	provider := &linuxCPUProvider{procMount: t.TempDir()}

	if _, err := provider.Architecture(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Architecture() error = %v, want ErrUnavailable", err)
	}
}

func TestLinuxCPUProvider_ArchitectureMissingMount(t *testing.T) {
	provider := &linuxCPUProvider{procMount: filepath.Join(t.TempDir(), "absent")}

	if _, err := provider.Architecture(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Architecture() error = %v, want ErrUnavailable", err)
	}
}

func TestLinuxCPUProvider_CoresFromOnlineList(t *testing.T) {
	tests := []struct {
		name   string
		online string
		want   int
	}{
		{name: "contiguous range", online: "0-7\n", want: 8},
		{name: "single cpu", online: "0\n", want: 1},
		{name: "holes from offlined cpus", online: "0-3,8-11\n", want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sysDir := t.TempDir()
			writeTestFile(t, sysDir, "online", tt.online)

			provider := &linuxCPUProvider{
				procMount:  t.TempDir(),
				sysCPUPath: sysDir,
			}

			counts, err := provider.Cores()
			if err != nil {
				t.Fatalf("Cores() failed: %v", err)
			}
			if counts.Logical != tt.want || counts.Physical != tt.want {
				t.Errorf("Cores() = %+v, want logical=physical=%d", counts, tt.want)
			}
			// Logical always equals physical here, so the heuristic stays off.
			if counts.HyperThreading() {
				t.Error("HyperThreading() = true, want false")
			}
		})
	}
}

func TestLinuxCPUProvider_CoresMalformedOnlineList(t *testing.T) {
	sysDir := t.TempDir()
	writeTestFile(t, sysDir, "online", "zero through seven\n")

	provider := &linuxCPUProvider{
		procMount:  t.TempDir(),
		sysCPUPath: sysDir,
	}

	// A present but unparseable online list must not fall through to the
	// stat fallback.
	if _, err := provider.Cores(); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("Cores() error = %v, want ErrUnrecognized", err)
	}
}

func TestLinuxCPUProvider_CoresStatFallback(t *testing.T) {
	procDir := t.TempDir()
	statContent := `cpu  100 0 50 850 0 0 0 0 0 0
cpu0 25 0 12 212 0 0 0 0 0 0
cpu1 25 0 13 213 0 0 0 0 0 0
cpu2 25 0 12 212 0 0 0 0 0 0
cpu3 25 0 13 213 0 0 0 0 0 0
`
	writeTestFile(t, procDir, "stat", statContent)

	provider := &linuxCPUProvider{
		procMount:  procDir,
		sysCPUPath: filepath.Join(t.TempDir(), "absent"),
	}

	counts, err := provider.Cores()
	if err != nil {
		t.Fatalf("Cores() failed: %v", err)
	}
	// Four per-cpu lines; the aggregate "cpu" line does not count.
	if counts.Logical != 4 || counts.Physical != 4 {
		t.Errorf("Cores() = %+v, want logical=physical=4", counts)
	}
}

func TestLinuxCPUProvider_CoresNoSources(t *testing.T) {
	provider := &linuxCPUProvider{
		procMount:  t.TempDir(),
		sysCPUPath: filepath.Join(t.TempDir(), "absent"),
	}

	if _, err := provider.Cores(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Cores() error = %v, want ErrUnavailable", err)
	}
}

func TestLinuxCPUProvider_ClockSpeed(t *testing.T) {
	procDir := t.TempDir()
	writeTestFile(t, procDir, "cpuinfo", sampleCPUInfo)

	provider := &linuxCPUProvider{procMount: procDir}

	speed, err := provider.ClockSpeed()
	if err != nil {
		t.Fatalf("ClockSpeed() failed: %v", err)
	}
	// First entry reports 3600.046 MHz; the fraction truncates.
	if want := int64(3600000000); speed != want {
		t.Errorf("ClockSpeed() = %d, want %d", speed, want)
	}
}

func TestLinuxCPUProvider_ClockSpeedNoFrequency(t *testing.T) {
	procDir := t.TempDir()
	writeTestFile(t, procDir, "cpuinfo", armCPUInfo)

	provider := &linuxCPUProvider{procMount: procDir}

	if _, err := provider.ClockSpeed(); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("ClockSpeed() error = %v, want ErrUnrecognized", err)
	}
}
