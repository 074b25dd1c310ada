package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// hzPerMHz converts megahertz quantities to the Hz values all clock speed
// queries report.
const hzPerMHz = 1_000_000

// Parsers shared by local Linux providers, remote providers and their
// tests. Values arrive as text either way (file contents locally, command
// output remotely). Helpers return plain errors; the calling provider
// classifies them as unavailable or unrecognized.

// cpuInfoField returns the value of the first "key : value" line in
// /proc/cpuinfo content. The bool reports whether the key was present.
func cpuInfoField(output, key string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.TrimSpace(parts[0]) == key {
			return strings.TrimSpace(parts[1]), true
		}
	}
	return "", false
}

// mhzToHz converts a textual megahertz quantity (e.g. "2400.046") to Hz.
// The fractional part is truncated before conversion, so the example
// yields 2400000000.
func mhzToHz(s string) (int64, error) {
	mhz, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse MHz value %q: %w", s, err)
	}
	if mhz < 0 {
		return 0, fmt.Errorf("negative MHz value %q", s)
	}
	return int64(mhz) * hzPerMHz, nil
}

// countCPURangeList counts the processors named by a kernel range list
// such as "0-3,8-11" or "0", the format of /sys/devices/system/cpu/online.
func countCPURangeList(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cpu range list")
	}

	total := 0
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) == 1 {
			if _, err := strconv.Atoi(bounds[0]); err != nil {
				return 0, fmt.Errorf("bad cpu list entry %q: %w", part, err)
			}
			total++
			continue
		}

		lo, err := strconv.Atoi(bounds[0])
		if err != nil {
			return 0, fmt.Errorf("bad cpu range %q: %w", part, err)
		}
		hi, err := strconv.Atoi(bounds[1])
		if err != nil {
			return 0, fmt.Errorf("bad cpu range %q: %w", part, err)
		}
		if hi < lo {
			return 0, fmt.Errorf("inverted cpu range %q", part)
		}
		total += hi - lo + 1
	}
	return total, nil
}

// memInfoBytes returns the byte value of a /proc/meminfo field such as
// "MemTotal" or "MemFree". The file records values in kB.
func memInfoBytes(output, key string) (int64, error) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.TrimSuffix(fields[0], ":") != key {
			continue
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %s value %q: %w", key, fields[1], err)
		}
		return kb * 1024, nil
	}
	return 0, fmt.Errorf("%s not present in meminfo", key)
}

// uptimeDuration parses /proc/uptime content: seconds since boot followed
// by aggregate idle time. Only the first field matters here.
func uptimeDuration(output string) (time.Duration, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime data")
	}

	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parsing uptime value: %w", err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative uptime %v", seconds)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
