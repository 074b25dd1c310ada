//go:build windows

package platform

import (
	"errors"
	"fmt"
	"math/bits"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// processorKeyPath is the registry key describing the boot processor.
const processorKeyPath = `HARDWARE\DESCRIPTION\System\CentralProcessor\0`

// Relationship values reported by GetLogicalProcessorInformation.
const (
	relationProcessorCore    = 0
	relationNumaNode         = 1
	relationCache            = 2
	relationProcessorPackage = 3
	relationGroup            = 4
)

// logicalProcessorInfo matches SYSTEM_LOGICAL_PROCESSOR_INFORMATION.
// The trailing reserved block stands in for the 16-byte union; declaring
// it as two uint64 forces the same alignment and total size as the C
// layout (32 bytes on 64-bit, 24 on 32-bit).
type logicalProcessorInfo struct {
	processorMask uintptr
	relationship  uint32
	_             [2]uint64
}

// windowsCPUProvider reads CPU facts from the registry and the processor
// topology API. The registry key path is injectable for testing.
type windowsCPUProvider struct {
	processorKey string
}

// newWindowsCPUProvider creates a provider reading the standard key.
func newWindowsCPUProvider() *windowsCPUProvider {
	return &windowsCPUProvider{processorKey: processorKeyPath}
}

// Architecture returns the processor brand string from the registry
// (value ProcessorNameString).
func (c *windowsCPUProvider) Architecture() (string, error) {
	const op = "cpu architecture"

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, c.processorKey, registry.QUERY_VALUE)
	if err != nil {
		return "", unavailable(op, err)
	}
	defer k.Close()

	name, _, err := k.GetStringValue("ProcessorNameString")
	if err != nil {
		return "", unrecognized(op, err)
	}
	return name, nil
}

// ClockSpeed returns the registry's nominal processor frequency (value
// ~MHz, a whole-MHz DWORD) converted to Hz.
func (c *windowsCPUProvider) ClockSpeed() (int64, error) {
	const op = "cpu clock speed"

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, c.processorKey, registry.QUERY_VALUE)
	if err != nil {
		return 0, unavailable(op, err)
	}
	defer k.Close()

	mhz, _, err := k.GetIntegerValue("~MHz")
	if err != nil {
		return 0, unrecognized(op, err)
	}
	return int64(mhz) * hzPerMHz, nil
}

// Cores queries the processor topology with GetLogicalProcessorInformation,
// growing the record buffer until the call stops reporting
// ERROR_INSUFFICIENT_BUFFER.
func (c *windowsCPUProvider) Cores() (CoreCount, error) {
	const op = "cpu cores"

	recSize := uint32(unsafe.Sizeof(logicalProcessorInfo{}))
	var length uint32
	var buf []logicalProcessorInfo
	for {
		var p uintptr
		if len(buf) > 0 {
			p = uintptr(unsafe.Pointer(&buf[0]))
		}
		ret, _, callErr := procGetLogicalProcessorInformation.Call(p, uintptr(unsafe.Pointer(&length)))
		if ret != 0 {
			break
		}
		if callErr != windows.ERROR_INSUFFICIENT_BUFFER {
			return CoreCount{}, unavailable(op, callErr)
		}
		buf = make([]logicalProcessorInfo, (length+recSize-1)/recSize)
	}

	counts, err := coreCountsFromTopology(buf[:length/recSize])
	if err != nil {
		return CoreCount{}, unrecognized(op, err)
	}
	return counts, nil
}

// coreCountsFromTopology walks topology records. Only processor-core
// records contribute: one physical core per record, one logical processor
// per set bit in the record's affinity mask. NUMA, cache, package and
// group records are skipped. An unknown relationship value aborts the
// walk; topology data that cannot be interpreted must not produce a
// half-correct pair.
func coreCountsFromTopology(records []logicalProcessorInfo) (CoreCount, error) {
	var count CoreCount
	for _, rec := range records {
		switch rec.relationship {
		case relationProcessorCore:
			count.Physical++
			count.Logical += bits.OnesCount64(uint64(rec.processorMask))
		case relationNumaNode, relationCache, relationProcessorPackage, relationGroup:
			// Not core records.
		default:
			return CoreCount{}, fmt.Errorf("unknown processor relationship %d", rec.relationship)
		}
	}
	if count.Physical == 0 {
		return CoreCount{}, errors.New("no processor core records")
	}
	return count, nil
}
