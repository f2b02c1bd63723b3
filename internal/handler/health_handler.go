package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/ticketing/pkg/response"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	version string
	checks  map[string]HealthChecker
}

// NewHealthHandler creates a new health handler. Nil checkers are
// skipped so optional dependencies can simply not be registered.
func NewHealthHandler(version string, checks map[string]HealthChecker) *HealthHandler {
	registered := make(map[string]HealthChecker, len(checks))
	for name, check := range checks {
		if check != nil {
			registered[name] = check
		}
	}
	return &HealthHandler{version: version, checks: registered}
}

// Live handles GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			results[name] = "ok"
		}
	}

	c.JSON(status, response.Response{
		Success: status == http.StatusOK,
		Data:    gin.H{"checks": results, "version": h.version},
	})
}
