//go:build linux

package platform

import (
	"golang.org/x/sys/unix"
)

// linuxMemoryProvider reads physical memory totals via sysinfo(2), the
// same source free(1) uses. The syscall is injectable for testing.
type linuxMemoryProvider struct {
	sysinfo func(*unix.Sysinfo_t) error
}

// newLinuxMemoryProvider creates a provider backed by the real syscall.
func newLinuxMemoryProvider() *linuxMemoryProvider {
	return &linuxMemoryProvider{sysinfo: unix.Sysinfo}
}

// Total returns the total usable physical memory in bytes.
func (m *linuxMemoryProvider) Total() (int64, error) {
	var si unix.Sysinfo_t
	if err := m.sysinfo(&si); err != nil {
		return 0, unavailable("memory total", err)
	}
	return int64(si.Totalram) * sysinfoUnit(&si), nil
}

// Free returns the unused physical memory in bytes. This is the kernel's
// freeram figure (MemFree), not "available" memory: page cache and
// reclaimable slabs count as used.
func (m *linuxMemoryProvider) Free() (int64, error) {
	var si unix.Sysinfo_t
	if err := m.sysinfo(&si); err != nil {
		return 0, unavailable("memory free", err)
	}
	return int64(si.Freeram) * sysinfoUnit(&si), nil
}

// sysinfoUnit returns the sysinfo block size in bytes. Kernels before
// 2.3.23 reported sizes directly in bytes with a zero unit.
func sysinfoUnit(si *unix.Sysinfo_t) int64 {
	if si.Unit == 0 {
		return 1
	}
	return int64(si.Unit)
}
