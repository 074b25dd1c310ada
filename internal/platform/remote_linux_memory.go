package platform

// remoteLinuxMemoryProvider answers memory queries for remote Linux
// systems over SSH. sysinfo(2) is not reachable through a shell, so it
// reads /proc/meminfo, which exposes the same kernel counters: MemTotal
// matches totalram and MemFree matches freeram.
type remoteLinuxMemoryProvider struct {
	runner commandRunner
}

func newRemoteLinuxMemoryProvider(p *sshPlatform) *remoteLinuxMemoryProvider {
	return &remoteLinuxMemoryProvider{
		runner: p,
	}
}

// newTestableRemoteLinuxMemoryProviderWithRunner creates a provider with an injectable runner for testing.
func newTestableRemoteLinuxMemoryProviderWithRunner(runner commandRunner) *remoteLinuxMemoryProvider {
	return &remoteLinuxMemoryProvider{
		runner: runner,
	}
}

// Total returns the remote MemTotal figure in bytes.
func (m *remoteLinuxMemoryProvider) Total() (int64, error) {
	const op = "remote memory total"

	output, err := m.runner.runCommand("cat /proc/meminfo")
	if err != nil {
		return 0, unavailable(op, err)
	}
	v, err := memInfoBytes(output, "MemTotal")
	if err != nil {
		return 0, unrecognized(op, err)
	}
	return v, nil
}

// Free returns the remote MemFree figure in bytes, keeping the local
// freeram semantics rather than MemAvailable.
func (m *remoteLinuxMemoryProvider) Free() (int64, error) {
	const op = "remote memory free"

	output, err := m.runner.runCommand("cat /proc/meminfo")
	if err != nil {
		return 0, unavailable(op, err)
	}
	v, err := memInfoBytes(output, "MemFree")
	if err != nil {
		return 0, unrecognized(op, err)
	}
	return v, nil
}
