package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

var (
	jkia = geo.Coordinate{Lat: -1.3192, Lng: 36.9275}
	cbd  = geo.Coordinate{Lat: -1.2864, Lng: 36.8172}
)

func TestDrive_ConvertsUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "driving")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code": "Ok", "routes": [{"distance": 16400.0, "duration": 1860.0, "geometry": "abc"}]}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Token: "t"}, zap.NewNop())
	distanceKm, durationMin, err := client.Drive(context.Background(), jkia, cbd)
	require.NoError(t, err)
	assert.InDelta(t, 16.4, distanceKm, 1e-9)
	assert.InDelta(t, 31.0, durationMin, 1e-9)
}

func TestDrive_EmptyRouteListIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Token: "t"}, zap.NewNop())
	_, _, err := client.Drive(context.Background(), jkia, cbd)
	require.Error(t, err)
	assert.True(t, geo.IsCode(err, geo.CodeUpstreamUnavailable))
}

func TestDrive_NonOKStatusIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, Token: "t"}, zap.NewNop())
	_, _, err := client.Drive(context.Background(), jkia, cbd)
	require.Error(t, err)
	assert.True(t, geo.IsCode(err, geo.CodeUpstreamUnavailable))
}

func TestDrive_ConnectionFailureIsUpstreamUnavailable(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:1", Token: "t"}, zap.NewNop())
	_, _, err := client.Drive(context.Background(), jkia, cbd)
	require.Error(t, err)
	assert.True(t, geo.IsCode(err, geo.CodeUpstreamUnavailable))
}
