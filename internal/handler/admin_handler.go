package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"github.com/twigaride/service-geo/internal/response"
)

// AdminHandler exposes operational endpoints: manual gazetteer reload and
// dataset stats.
type AdminHandler struct {
	store *gazetteer.Store
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store *gazetteer.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.POST("/gazetteer/reload", h.Reload)
		admin.GET("/gazetteer/stats", h.Stats)
	}
}

// Reload handles POST /api/v1/admin/gazetteer/reload. It re-reads the dataset
// file and swaps in the fresh snapshot, the same path the dataset-updated
// event takes.
func (h *AdminHandler) Reload(c *gin.Context) {
	if err := h.store.Reload(); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"entries": h.store.Gazetteer().Len()})
}

// Stats handles GET /api/v1/admin/gazetteer/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	g := h.store.Gazetteer()

	bySource := make(map[string]int)
	for _, loc := range g.Locations() {
		bySource[string(loc.Source)]++
	}

	response.Success(c, gin.H{
		"entries":   g.Len(),
		"by_source": bySource,
	})
}
