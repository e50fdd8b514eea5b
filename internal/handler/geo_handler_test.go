package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twigaride/service-geo/internal/application"
	"github.com/twigaride/service-geo/internal/domain/geo"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"go.uber.org/zap"
)

type noGeocoder struct{}

func (noGeocoder) Forward(ctx context.Context, query string) ([]geo.Location, error) {
	return nil, geo.NewUpstreamUnavailableError("geocoding", assert.AnError)
}

type noDirections struct{}

func (noDirections) Drive(ctx context.Context, pickup, dropoff geo.Coordinate) (float64, float64, error) {
	return 0, 0, geo.NewUpstreamUnavailableError("directions", assert.AnError)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "gazetteer.json")
	require.NoError(t, gazetteer.WriteDataset(path, []geo.Location{
		{
			ID:          geo.LocationID(geo.SourceCurated, "jkia"),
			Name:        "Jomo Kenyatta International Airport",
			FullAddress: "Jomo Kenyatta International Airport, Mombasa Road, Nairobi, Kenya",
			Coordinate:  geo.Coordinate{Lat: -1.3192, Lng: 36.9275},
			Source:      geo.SourceCurated,
		},
		{
			ID:          geo.LocationID(geo.SourceCurated, "cbd"),
			Name:        "Nairobi CBD",
			FullAddress: "Nairobi Central Business District, Kenya",
			Coordinate:  geo.Coordinate{Lat: -1.2864, Lng: 36.8172},
			Source:      geo.SourceCurated,
		},
	}))

	store, err := gazetteer.NewStore(path, zap.NewNop())
	require.NoError(t, err)

	log := zap.NewNop()
	resolver := application.NewResolverService(store, noGeocoder{}, log)
	routes := application.NewRouteService(noDirections{}, geo.NewStandardFareStrategy(), log)

	router := gin.New()
	NewGeoHandler(resolver, routes).RegisterRoutes(&router.RouterGroup)
	NewAdminHandler(store).RegisterRoutes(&router.RouterGroup)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestSearch_AliasResolvesToCuratedAirport(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/geo/search?q=JKIA", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result SearchResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	assert.True(t, result.Found)
	require.NotEmpty(t, result.Candidates)
	assert.Equal(t, "Jomo Kenyatta International Airport", result.Candidates[0].Name)
	assert.Equal(t, geo.ProvenanceLocal, result.Candidates[0].Provenance)
	assert.InDelta(t, -1.3192, result.Candidates[0].Lat, 1e-9)
	assert.InDelta(t, 36.9275, result.Candidates[0].Lng, 1e-9)
}

func TestSearch_NoMatchReportsNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/geo/search?q=zzqy+plaza", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result SearchResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	assert.False(t, result.Found)
	assert.Empty(t, result.Candidates)
}

func TestEstimate_DisplayFallback(t *testing.T) {
	router := newTestRouter(t)

	body := `{"pickup": {"lat": -1.3192, "lng": 36.9275}, "dropoff": {"lat": -1.2864, "lng": 36.8172}, "purpose": "display"}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/geo/estimate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result geo.RouteResult
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	assert.Equal(t, geo.MethodStraightLine, result.Method)
	assert.InDelta(t, 12.6, result.DistanceKm, 0.3)
}

func TestEstimate_RejectsUnknownPurpose(t *testing.T) {
	router := newTestRouter(t)

	body := `{"pickup": {"lat": -1.3192, "lng": 36.9275}, "dropoff": {"lat": -1.2864, "lng": 36.8172}, "purpose": "teleport"}`
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/geo/estimate", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrip_ComposesEstimate(t *testing.T) {
	router := newTestRouter(t)

	body := `{"pickup": {"lat": -1.3192, "lng": 36.9275}, "dropoff": {"lat": -1.2864, "lng": 36.8172}}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/geo/trip", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var trip application.TripEstimate
	require.NoError(t, json.Unmarshal(envelope["data"], &trip))
	assert.Equal(t, geo.MethodStraightLine, trip.Route.Method)
	assert.GreaterOrEqual(t, trip.Price.Amount, int64(geo.MinimumFare))
	assert.Equal(t, geo.CurrencyKES, trip.Price.Currency)
	assert.Equal(t, 11, trip.Viewport.Zoom)
}

func TestQuote_KnownDistance(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/geo/quote", `{"distance_km": 12.6}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote geo.PriceQuote
	require.NoError(t, json.Unmarshal(envelope["data"], &quote))
	assert.Equal(t, int64(380), quote.Amount)
}

func TestViewport_SinglePoint(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/api/v1/geo/viewport", `{"points": [{"lat": -1.2864, "lng": 36.8172}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var vp geo.Viewport
	require.NoError(t, json.Unmarshal(envelope["data"], &vp))
	assert.Equal(t, 14, vp.Zoom)
}

func TestAdmin_ReloadAndStats(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/admin/gazetteer/reload", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := doJSON(t, router, http.MethodGet, "/api/v1/admin/gazetteer/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Entries  int            `json:"entries"`
		BySource map[string]int `json:"by_source"`
	}
	require.NoError(t, json.Unmarshal(envelope["data"], &stats))
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 2, stats.BySource["curated"])
}
