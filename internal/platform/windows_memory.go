//go:build windows

package platform

import (
	"unsafe"
)

// memoryStatusEx matches the Windows MEMORYSTATUSEX structure.
type memoryStatusEx struct {
	dwLength                uint32
	dwMemoryLoad            uint32
	ullTotalPhys            uint64
	ullAvailPhys            uint64
	ullTotalPageFile        uint64
	ullAvailPageFile        uint64
	ullTotalVirtual         uint64
	ullAvailVirtual         uint64
	ullAvailExtendedVirtual uint64
}

// windowsMemoryProvider reads physical memory totals via the
// GlobalMemoryStatusEx API.
type windowsMemoryProvider struct{}

func newWindowsMemoryProvider() *windowsMemoryProvider {
	return &windowsMemoryProvider{}
}

// readMemoryStatus retrieves the current memory status from Windows.
// Both Total and Free come from one call each; the struct is cheap and
// refetched per query.
func (m *windowsMemoryProvider) readMemoryStatus(op string) (*memoryStatusEx, error) {
	var memStatus memoryStatusEx
	memStatus.dwLength = uint32(unsafe.Sizeof(memStatus))

	ret, _, err := procGlobalMemoryStatusEx.Call(uintptr(unsafe.Pointer(&memStatus)))
	if ret == 0 {
		return nil, unavailable(op, err)
	}

	return &memStatus, nil
}

// Total returns the total physical memory in bytes (ullTotalPhys).
func (m *windowsMemoryProvider) Total() (int64, error) {
	memStatus, err := m.readMemoryStatus("memory total")
	if err != nil {
		return 0, err
	}
	return int64(memStatus.ullTotalPhys), nil
}

// Free returns the available physical memory in bytes (ullAvailPhys).
// Windows reports availability, memory usable without hitting the page
// file, rather than strictly untouched pages.
func (m *windowsMemoryProvider) Free() (int64, error) {
	memStatus, err := m.readMemoryStatus("memory free")
	if err != nil {
		return 0, err
	}
	return int64(memStatus.ullAvailPhys), nil
}
