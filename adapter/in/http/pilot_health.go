package http

import (
	"context"
	"time"

	"mailpilot/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks  map[string]Pinger
	breaker func() string
	stats   map[string]func() any
}

// NewHealthHandler builds the probes. Nil checks report "not configured".
func NewHealthHandler(checks map[string]Pinger, breaker func() string) *HealthHandler {
	return &HealthHandler{checks: checks, breaker: breaker}
}

// WithStats adds a named stats section to /health.
func (h *HealthHandler) WithStats(name string, fn func() any) *HealthHandler {
	if h.stats == nil {
		h.stats = make(map[string]func() any)
	}
	h.stats[name] = fn
	return h
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.breaker != nil {
		body["llm_breaker"] = h.breaker()
	}
	for name, fn := range h.stats {
		body[name] = fn()
	}
	return c.JSON(body)
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	allHealthy := true

	for name, p := range h.checks {
		if p == nil {
			checks[name] = "not configured"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			logger.WithContext(ctx).WithError(err).WithField("check", name).Warn("readiness check failed")
			checks[name] = "unhealthy"
			allHealthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
