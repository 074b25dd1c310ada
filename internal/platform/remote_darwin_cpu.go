package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// remoteDarwinCPUProvider answers CPU queries for remote macOS systems
// over SSH using sysctl.
type remoteDarwinCPUProvider struct {
	runner commandRunner
}

func newRemoteDarwinCPUProvider(p *sshPlatform) *remoteDarwinCPUProvider {
	return &remoteDarwinCPUProvider{
		runner: p,
	}
}

// newTestableRemoteDarwinCPUProviderWithRunner creates a provider with an injectable runner for testing.
func newTestableRemoteDarwinCPUProviderWithRunner(runner commandRunner) *remoteDarwinCPUProvider {
	return &remoteDarwinCPUProvider{
		runner: runner,
	}
}

// sysctlInt runs "sysctl -n name" and parses the integer result.
func (c *remoteDarwinCPUProvider) sysctlInt(name string) (int64, error) {
	output, err := c.runner.runCommand("sysctl -n " + name)
	if err != nil {
		return 0, err
	}
	raw := strings.TrimSpace(output)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s value %q: %w", name, raw, err)
	}
	return v, nil
}

// Architecture returns the processor brand string.
func (c *remoteDarwinCPUProvider) Architecture() (string, error) {
	const op = "remote cpu architecture"

	output, err := c.runner.runCommand("sysctl -n machdep.cpu.brand_string")
	if err != nil {
		return "", unavailable(op, err)
	}
	brand := strings.TrimSpace(output)
	if brand == "" {
		return "", unrecognizedf(op, "empty brand string")
	}
	return brand, nil
}

// Cores returns hw.logicalcpu and hw.physicalcpu, genuinely distinct
// figures on macOS, so the hyper-threading heuristic works on this path.
func (c *remoteDarwinCPUProvider) Cores() (CoreCount, error) {
	const op = "remote cpu cores"

	logical, err := c.sysctlInt("hw.logicalcpu")
	if err != nil {
		return CoreCount{}, unavailable(op, err)
	}
	physical, err := c.sysctlInt("hw.physicalcpu")
	if err != nil {
		return CoreCount{}, unavailable(op, err)
	}
	if logical <= 0 || physical <= 0 {
		return CoreCount{}, unrecognizedf(op, "non-positive core counts %d/%d", logical, physical)
	}
	return CoreCount{Logical: int(logical), Physical: int(physical)}, nil
}

// ClockSpeed returns hw.cpufrequency, which macOS reports in Hz already.
// Apple Silicon machines do not expose the key; the failed sysctl
// surfaces as ErrUnavailable.
func (c *remoteDarwinCPUProvider) ClockSpeed() (int64, error) {
	const op = "remote cpu clock speed"

	hz, err := c.sysctlInt("hw.cpufrequency")
	if err != nil {
		return 0, unavailable(op, err)
	}
	if hz <= 0 {
		return 0, unrecognizedf(op, "non-positive frequency %d", hz)
	}
	return hz, nil
}
