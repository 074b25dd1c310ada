package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// remoteLinuxCPUProvider answers CPU queries for remote Linux systems
// over SSH. It reads the same sources as the local provider, but as
// command output instead of mounted files.
type remoteLinuxCPUProvider struct {
	runner commandRunner
}

func newRemoteLinuxCPUProvider(p *sshPlatform) *remoteLinuxCPUProvider {
	return &remoteLinuxCPUProvider{
		runner: p,
	}
}

// newTestableRemoteLinuxCPUProviderWithRunner creates a provider with an injectable runner for testing.
func newTestableRemoteLinuxCPUProviderWithRunner(runner commandRunner) *remoteLinuxCPUProvider {
	return &remoteLinuxCPUProvider{
		runner: runner,
	}
}

// Architecture returns the first model name entry of the remote cpuinfo.
func (c *remoteLinuxCPUProvider) Architecture() (string, error) {
	const op = "remote cpu architecture"

	output, err := c.runner.runCommand("cat /proc/cpuinfo")
	if err != nil {
		return "", unavailable(op, err)
	}

	model, ok := cpuInfoField(output, "model name")
	if !ok || model == "" {
		return "", unrecognizedf(op, "no model name in remote cpuinfo")
	}
	return model, nil
}

// Cores returns the online processor count via getconf, the shell
// equivalent of the local sysconf path. Logical and physical are equal
// here for the same reason they are locally.
func (c *remoteLinuxCPUProvider) Cores() (CoreCount, error) {
	const op = "remote cpu cores"

	output, err := c.runner.runCommand("getconf _NPROCESSORS_ONLN")
	if err != nil {
		return CoreCount{}, unavailable(op, err)
	}

	raw := strings.TrimSpace(output)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return CoreCount{}, unrecognized(op, fmt.Errorf("parse processor count %q: %w", raw, err))
	}
	if n <= 0 {
		return CoreCount{}, unrecognizedf(op, "non-positive processor count %d", n)
	}
	return CoreCount{Logical: n, Physical: n}, nil
}

// ClockSpeed returns the first cpu MHz entry of the remote cpuinfo in Hz.
func (c *remoteLinuxCPUProvider) ClockSpeed() (int64, error) {
	const op = "remote cpu clock speed"

	output, err := c.runner.runCommand("cat /proc/cpuinfo")
	if err != nil {
		return 0, unavailable(op, err)
	}

	raw, ok := cpuInfoField(output, "cpu MHz")
	if !ok {
		return 0, unrecognizedf(op, "no cpu MHz in remote cpuinfo")
	}
	hz, err := mhzToHz(raw)
	if err != nil {
		return 0, unrecognized(op, err)
	}
	return hz, nil
}
