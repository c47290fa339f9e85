package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wallet-gateway/internal/core/ports"
)

// HealthHandler reports service and dependency liveness.
type HealthHandler struct {
	checkers []ports.HealthChecker
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(checkers ...ports.HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Check handles GET /health. Any failing dependency turns the response 503.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checkers))
	for _, checker := range h.checkers {
		if err := checker.Check(ctx); err != nil {
			checks[checker.Name()] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[checker.Name()] = "ok"
	}

	body := gin.H{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
