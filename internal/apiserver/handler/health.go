package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/pkg/storage"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers map[string]storage.HealthChecker
}

// NewHealthHandler creates a HealthHandler over the given backend checkers.
func NewHealthHandler(checkers map[string]storage.HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Healthz handles GET /healthz. Always healthy while the process serves.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}

// Readyz handles GET /readyz. Ready only when every backend responds.
func (h *HealthHandler) Readyz(c *gin.Context) {
	statuses := make([]storage.HealthStatus, 0, len(h.checkers))
	ready := true
	for name, checker := range h.checkers {
		status := storage.Check(name, checker)
		if !status.Healthy {
			ready = false
		}
		statuses = append(statuses, status)
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"ready": ready, "backends": statuses})
}
