package hostinfo

import (
	"fmt"
	"strings"
	"time"
)

// HealthStatus represents the health state of the probe or one of its
// query domains.
type HealthStatus string

const (
	// HealthOK indicates every query in the domain succeeded.
	HealthOK HealthStatus = "ok"
	// HealthDegraded indicates some queries succeeded and some degraded
	// to sentinels.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates no query in the domain succeeded.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck contains the health status of a probe and its query domains.
type HealthCheck struct {
	// Status is the overall health status.
	Status HealthStatus `json:"status"`

	// Timestamp is when the health check was performed.
	Timestamp time.Time `json:"timestamp"`

	// Components contains health status per query domain.
	Components map[string]ComponentHealth `json:"components"`

	// Message provides additional context about the health status.
	Message string `json:"message,omitempty"`
}

// ComponentHealth represents the health status of one query domain.
type ComponentHealth struct {
	// Status is the health status of this domain.
	Status HealthStatus `json:"status"`

	// Message provides details about the domain's state.
	Message string `json:"message,omitempty"`

	// LastUpdated is when this domain was last checked.
	LastUpdated time.Time `json:"last_updated"`
}

// IsHealthy returns true if the overall status is HealthOK.
func (h HealthCheck) IsHealthy() bool {
	return h.Status == HealthOK
}

// IsDegraded returns true if the overall status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool {
	return h.Status == HealthDegraded
}

// IsUnhealthy returns true if the overall status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool {
	return h.Status == HealthUnhealthy
}

// Health runs one query per fact and reports how much of the platform
// is answering. The check issues live queries; it reflects the OS state
// at call time, not a cached verdict.
func (p *Probe) Health() HealthCheck {
	now := time.Now()
	check := HealthCheck{
		Timestamp:  now,
		Components: make(map[string]ComponentHealth),
	}

	check.Components["cpu"] = p.checkCPU(now)
	check.Components["memory"] = p.checkMemory(now)
	check.Components["host"] = p.checkHost(now)

	okCount := 0
	unhealthyCount := 0
	for _, component := range check.Components {
		switch component.Status {
		case HealthOK:
			okCount++
		case HealthUnhealthy:
			unhealthyCount++
		}
	}

	switch {
	case okCount == len(check.Components):
		check.Status = HealthOK
	case unhealthyCount == len(check.Components):
		check.Status = HealthUnhealthy
		check.Message = "no query domain is answering"
	default:
		check.Status = HealthDegraded
		check.Message = fmt.Sprintf("%d of %d query domains fully answering",
			okCount, len(check.Components))
	}

	return check
}

// checkCPU probes the architecture, core count and clock speed queries.
func (p *Probe) checkCPU(now time.Time) ComponentHealth {
	cpu := p.platform.CPU()
	var failed []string

	if _, err := cpu.Architecture(); err != nil {
		failed = append(failed, "architecture")
	}
	if _, err := cpu.Cores(); err != nil {
		failed = append(failed, "cores")
	}
	if _, err := cpu.ClockSpeed(); err != nil {
		failed = append(failed, "clock speed")
	}

	return domainHealth(now, 3, failed)
}

// checkMemory probes the total and free memory queries.
func (p *Probe) checkMemory(now time.Time) ComponentHealth {
	memory := p.platform.Memory()
	var failed []string

	if _, err := memory.Total(); err != nil {
		failed = append(failed, "total")
	}
	if _, err := memory.Free(); err != nil {
		failed = append(failed, "free")
	}

	return domainHealth(now, 2, failed)
}

// checkHost probes the host identity query.
func (p *Probe) checkHost(now time.Time) ComponentHealth {
	var failed []string

	if _, err := p.platform.Host().Identity(); err != nil {
		failed = append(failed, "identity")
	}

	return domainHealth(now, 1, failed)
}

// domainHealth grades a query domain from its failed query names.
func domainHealth(now time.Time, total int, failed []string) ComponentHealth {
	health := ComponentHealth{LastUpdated: now}
	switch {
	case len(failed) == 0:
		health.Status = HealthOK
	case len(failed) == total:
		health.Status = HealthUnhealthy
		health.Message = "all queries failing"
	default:
		health.Status = HealthDegraded
		health.Message = fmt.Sprintf("failing: %s", strings.Join(failed, ", "))
	}
	return health
}
