// Package api exposes probe queries over a small REST surface.
// Sentinel values pass through as ordinary JSON data; the only error
// responses are timeouts of a full report collection.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	expvarmw "github.com/gofiber/fiber/v2/middleware/expvar"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/opd-ai/go-hostinfo/pkg/hostinfo"
)

// collectTimeout bounds the platform queries behind one request.
// Local queries answer in microseconds; remote probes go over SSH.
const collectTimeout = 10 * time.Second

// Server represents the API server.
type Server struct {
	app   *fiber.App
	probe *hostinfo.Probe
}

// NewServer creates an API server answering from the given probe.
func NewServer(probe *hostinfo.Probe) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ServerHeader: "hostinfo",
		AppName:      "hostinfo v1.0",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "*",
	}))
	app.Use(expvarmw.New())

	// Probe counters show up under /debug/vars alongside the runtime's.
	probe.Metrics().RegisterExpvar()

	server := &Server{
		app:   app,
		probe: probe,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.app.Group("/api")

	api.Get("/hostinfo", s.getReport)
	api.Get("/cpu", s.getCPU)
	api.Get("/memory", s.getMemory)
	api.Get("/host", s.getHost)
	api.Get("/health", s.getHealth)
}

// Start starts the API server.
func (s *Server) Start(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
