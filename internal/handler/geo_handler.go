package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/twigaride/service-geo/internal/application"
	"github.com/twigaride/service-geo/internal/domain/geo"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"github.com/twigaride/service-geo/internal/response"
)

// Estimate purposes accepted by the estimate endpoint.
const (
	PurposeDisplay = "display"
	PurposeQuote   = "quote"
)

// GeoHandler handles HTTP requests for location resolution and route
// estimation.
type GeoHandler struct {
	resolver *application.ResolverService
	routes   *application.RouteService
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(resolver *application.ResolverService, routes *application.RouteService) *GeoHandler {
	return &GeoHandler{resolver: resolver, routes: routes}
}

// RegisterRoutes registers all geo routes on the given router group.
func (h *GeoHandler) RegisterRoutes(r *gin.RouterGroup) {
	api := r.Group("/api/v1/geo")
	{
		api.GET("/search", h.Search)
		api.POST("/estimate", h.Estimate)
		api.POST("/trip", h.EstimateTrip)
		api.POST("/quote", h.Quote)
		api.POST("/viewport", h.Viewport)
	}
}

// SearchResponse wraps candidates with an explicit found flag so the UI can
// render "not found" messaging without inspecting list length.
type SearchResponse struct {
	Query      string                `json:"query"`
	Found      bool                  `json:"found"`
	Candidates []geo.SearchCandidate `json:"candidates"`
}

// Search handles GET /api/v1/geo/search?q=&limit=.
func (h *GeoHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(gazetteer.DefaultSearchLimit)))

	candidates := h.resolver.Resolve(c.Request.Context(), query, limit)
	response.Success(c, SearchResponse{
		Query:      query,
		Found:      len(candidates) > 0,
		Candidates: candidates,
	})
}

// EstimateRequest asks for a route estimate between two resolved coordinates.
// Callers must be explicit about the purpose: the straight-line fallback is
// inflated in quote mode only.
type EstimateRequest struct {
	Pickup  geo.Coordinate `json:"pickup" binding:"required"`
	Dropoff geo.Coordinate `json:"dropoff" binding:"required"`
	Purpose string         `json:"purpose"`
}

// Estimate handles POST /api/v1/geo/estimate.
func (h *GeoHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var (
		result geo.RouteResult
		err    error
	)
	switch req.Purpose {
	case PurposeQuote:
		result, err = h.routes.EstimateForQuote(c.Request.Context(), req.Pickup, req.Dropoff)
	case PurposeDisplay, "":
		result, err = h.routes.EstimateForDisplay(c.Request.Context(), req.Pickup, req.Dropoff)
	default:
		response.BadRequest(c, "purpose must be \"display\" or \"quote\"")
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TripRequest asks for the composite estimate the booking UI consumes.
type TripRequest struct {
	Pickup  geo.Coordinate `json:"pickup" binding:"required"`
	Dropoff geo.Coordinate `json:"dropoff" binding:"required"`
}

// EstimateTrip handles POST /api/v1/geo/trip.
func (h *GeoHandler) EstimateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	trip, err := h.routes.EstimateTrip(c.Request.Context(), req.Pickup, req.Dropoff)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, trip)
}

// QuoteRequest asks for a fare for a known distance.
type QuoteRequest struct {
	DistanceKm float64 `json:"distance_km"`
}

// Quote handles POST /api/v1/geo/quote.
func (h *GeoHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quote, err := h.routes.Quote(req.DistanceKm)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, quote)
}

// ViewportRequest asks for a viewport framing the given points.
type ViewportRequest struct {
	Points []geo.Coordinate `json:"points" binding:"required"`
}

// Viewport handles POST /api/v1/geo/viewport.
func (h *GeoHandler) Viewport(c *gin.Context) {
	var req ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	viewport, err := geo.FitViewport(req.Points)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, viewport)
}
