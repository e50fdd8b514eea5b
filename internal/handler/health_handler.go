package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twigaride/service-geo/internal/gazetteer"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store   *gazetteer.Store
	service string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store *gazetteer.Store, service string) *HealthHandler {
	return &HealthHandler{store: store, service: service}
}

// RegisterRoutes registers the probe routes on the router.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready handles GET /ready. The service is ready once the gazetteer snapshot
// holds data.
func (h *HealthHandler) Ready(c *gin.Context) {
	entries := h.store.Gazetteer().Len()
	if entries == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"entries": 0,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "entries": entries})
}
