//go:build linux

package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/prometheus/procfs"
)

// linuxCPUProvider reads CPU facts from the proc and sys filesystems.
// Paths are injectable so tests can point at fabricated trees. The procfs
// handle is constructed per query; every call re-reads the kernel's data.
type linuxCPUProvider struct {
	procMount  string
	sysCPUPath string
}

// newLinuxCPUProvider creates a provider reading from the standard mounts.
func newLinuxCPUProvider() *linuxCPUProvider {
	return &linuxCPUProvider{
		procMount:  procfs.DefaultMountPoint,
		sysCPUPath: "/sys/devices/system/cpu",
	}
}

// Architecture returns the first "model name" entry of /proc/cpuinfo.
// Architectures whose cpuinfo carries no model name (common on ARM
// kernels) yield ErrUnrecognized.
func (c *linuxCPUProvider) Architecture() (string, error) {
	const op = "cpu architecture"

	fs, err := procfs.NewFS(c.procMount)
	if err != nil {
		return "", unavailable(op, err)
	}
	infos, err := fs.CPUInfo()
	if err != nil {
		return "", classifyProcError(op, err)
	}

	for _, info := range infos {
		if info.ModelName != "" {
			return info.ModelName, nil
		}
	}
	return "", unrecognizedf(op, "no model name among %d cpuinfo entries", len(infos))
}

// Cores returns the online processor count in both fields. The primary
// source is the sysfs online range list; the per-cpu lines of /proc/stat
// are the fallback when sysfs is absent. Physical cores are not counted
// separately on Linux, so the hyper-threading heuristic never fires here.
func (c *linuxCPUProvider) Cores() (CoreCount, error) {
	const op = "cpu cores"

	if raw, ok := readStringFile(filepath.Join(c.sysCPUPath, "online")); ok {
		n, err := countCPURangeList(raw)
		if err != nil {
			return CoreCount{}, unrecognized(op, err)
		}
		return CoreCount{Logical: n, Physical: n}, nil
	}

	fs, err := procfs.NewFS(c.procMount)
	if err != nil {
		return CoreCount{}, unavailable(op, err)
	}
	stat, err := fs.Stat()
	if err != nil {
		return CoreCount{}, classifyProcError(op, err)
	}
	if len(stat.CPU) == 0 {
		return CoreCount{}, unrecognizedf(op, "no per-cpu lines in stat")
	}
	n := len(stat.CPU)
	return CoreCount{Logical: n, Physical: n}, nil
}

// ClockSpeed returns the first "cpu MHz" entry of /proc/cpuinfo in Hz.
// Fractional MHz is truncated before conversion.
func (c *linuxCPUProvider) ClockSpeed() (int64, error) {
	const op = "cpu clock speed"

	fs, err := procfs.NewFS(c.procMount)
	if err != nil {
		return 0, unavailable(op, err)
	}
	infos, err := fs.CPUInfo()
	if err != nil {
		return 0, classifyProcError(op, err)
	}

	for _, info := range infos {
		if info.CPUMHz > 0 {
			return int64(info.CPUMHz) * hzPerMHz, nil
		}
	}
	return 0, unrecognizedf(op, "no cpu MHz field among %d cpuinfo entries", len(infos))
}

// classifyProcError maps procfs failures onto the error taxonomy: file
// access problems are unavailable, content that procfs could not parse
// is unrecognized.
func classifyProcError(op string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return unavailable(op, err)
	}
	return unrecognized(op, err)
}
