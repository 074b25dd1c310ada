package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// remoteDarwinMemoryProvider answers memory queries for remote macOS
// systems over SSH: hw.memsize for the total, vm_stat for free pages.
type remoteDarwinMemoryProvider struct {
	runner commandRunner
}

func newRemoteDarwinMemoryProvider(p *sshPlatform) *remoteDarwinMemoryProvider {
	return &remoteDarwinMemoryProvider{
		runner: p,
	}
}

// newTestableRemoteDarwinMemoryProviderWithRunner creates a provider with an injectable runner for testing.
func newTestableRemoteDarwinMemoryProviderWithRunner(runner commandRunner) *remoteDarwinMemoryProvider {
	return &remoteDarwinMemoryProvider{
		runner: runner,
	}
}

// Total returns hw.memsize in bytes.
func (m *remoteDarwinMemoryProvider) Total() (int64, error) {
	const op = "remote memory total"

	output, err := m.runner.runCommand("sysctl -n hw.memsize")
	if err != nil {
		return 0, unavailable(op, err)
	}
	raw := strings.TrimSpace(output)
	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, unrecognized(op, fmt.Errorf("parse hw.memsize value %q: %w", raw, err))
	}
	return total, nil
}

// Free returns the free and speculative page counts from vm_stat scaled
// by the reported page size. Speculative pages hold readahead data the
// kernel discards on demand, so they count as free.
func (m *remoteDarwinMemoryProvider) Free() (int64, error) {
	const op = "remote memory free"

	output, err := m.runner.runCommand("vm_stat")
	if err != nil {
		return 0, unavailable(op, err)
	}
	free, err := parseVMStatFreeBytes(output)
	if err != nil {
		return 0, unrecognized(op, err)
	}
	return free, nil
}

// parseVMStatFreeBytes extracts (free + speculative pages) * page size
// from vm_stat output. The header line carries the page size; counter
// values end with a period.
func parseVMStatFreeBytes(output string) (int64, error) {
	pageSize := int64(4096)
	var freePages, speculativePages int64
	var sawFree bool

	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "page size of") {
			fields := strings.Fields(line)
			if len(fields) >= 8 {
				if ps, err := strconv.ParseInt(fields[7], 10, 64); err == nil {
					pageSize = ps
				}
			}
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSuffix(strings.TrimSpace(parts[1]), ".")

		switch key {
		case "Pages free":
			pages, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parse free pages %q: %w", value, err)
			}
			freePages = pages
			sawFree = true
		case "Pages speculative":
			pages, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parse speculative pages %q: %w", value, err)
			}
			speculativePages = pages
		}
	}

	if !sawFree {
		return 0, fmt.Errorf("no free page count in vm_stat output")
	}
	return (freePages + speculativePages) * pageSize, nil
}
