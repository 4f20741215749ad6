package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Check reports whether a dependency is reachable
type Check func(ctx context.Context) error

// HealthHandler serves the health endpoint
type HealthHandler struct {
	service string
	checks  map[string]Check
}

// NewHealthHandler creates a health handler. Every check runs on each request.
func NewHealthHandler(service string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{service: service, checks: checks}
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	status := http.StatusOK
	deps := echo.Map{}
	for name, check := range h.checks {
		if err := check(c.Request().Context()); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			continue
		}
		deps[name] = "ok"
	}

	body := echo.Map{
		"status":  "healthy",
		"service": h.service,
	}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	return c.JSON(status, body)
}
