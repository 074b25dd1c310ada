package platform

import (
	"strings"
)

// remoteLinuxHostProvider answers host identity queries for remote Linux
// systems over SSH.
type remoteLinuxHostProvider struct {
	runner commandRunner
}

func newRemoteLinuxHostProvider(p *sshPlatform) *remoteLinuxHostProvider {
	return &remoteLinuxHostProvider{
		runner: p,
	}
}

// newTestableRemoteLinuxHostProviderWithRunner creates a provider with an injectable runner for testing.
func newTestableRemoteLinuxHostProviderWithRunner(runner commandRunner) *remoteLinuxHostProvider {
	return &remoteLinuxHostProvider{
		runner: runner,
	}
}

// Identity collects hostname, kernel release and uptime with one command
// each.
func (h *remoteLinuxHostProvider) Identity() (*HostIdentity, error) {
	const op = "remote host identity"

	hostname, err := h.runner.runCommand("hostname")
	if err != nil {
		return nil, unavailable(op, err)
	}

	kernel, err := h.runner.runCommand("uname -r")
	if err != nil {
		return nil, unavailable(op, err)
	}

	uptimeRaw, err := h.runner.runCommand("cat /proc/uptime")
	if err != nil {
		return nil, unavailable(op, err)
	}
	uptime, err := uptimeDuration(uptimeRaw)
	if err != nil {
		return nil, unrecognized(op, err)
	}

	release := strings.TrimSpace(kernel)
	return &HostIdentity{
		Hostname:      strings.TrimSpace(hostname),
		OS:            "Linux",
		OSVersion:     release,
		KernelVersion: release,
		Uptime:        uptime,
	}, nil
}
