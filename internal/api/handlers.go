package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/opd-ai/go-hostinfo/pkg/hostinfo"
)

// Full report endpoint
func (s *Server) getReport(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), collectTimeout)
	defer cancel()

	report, err := s.probe.Collect(ctx)
	if err != nil {
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(report)
}

// CPU endpoint
func (s *Server) getCPU(c *fiber.Ctx) error {
	logical, physical := s.probe.CPUTotalCores()
	smt := logical != hostinfo.Unavailable && logical != physical

	return c.JSON(fiber.Map{
		"architecture":    s.probe.CPUArchitecture(),
		"logical_cores":   logical,
		"physical_cores":  physical,
		"clock_speed_hz":  s.probe.CPUClockSpeed(),
		"hyper_threading": smt,
	})
}

// Memory endpoint
func (s *Server) getMemory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"total_bytes": s.probe.RAMTotal(),
		"free_bytes":  s.probe.RAMFree(),
	})
}

// Host identity endpoint
func (s *Server) getHost(c *fiber.Ctx) error {
	return c.JSON(s.probe.HostFacts())
}

// Health check endpoint. Degraded platforms still answer 200; only a
// platform with no answering query domain reports 503.
func (s *Server) getHealth(c *fiber.Ctx) error {
	check := s.probe.Health()

	status := fiber.StatusOK
	if check.IsUnhealthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(check)
}
