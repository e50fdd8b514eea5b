// Package routing wraps the external directions service. A failed or empty
// response is an UpstreamUnavailable error; the caller falls back to a
// great-circle estimate rather than retrying.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

// Config holds the directions service settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is an HTTP client for the directions service.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New creates a directions client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type directionsResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry string  `json:"geometry"`
	} `json:"routes"`
	Code string `json:"code"`
}

// Drive requests a driving route between the two points and returns distance
// in kilometers and duration in minutes. An empty route list counts as an
// upstream failure.
func (c *Client) Drive(ctx context.Context, pickup, dropoff geo.Coordinate) (float64, float64, error) {
	reqURL := fmt.Sprintf("%s/directions/v5/mapbox/driving/%f,%f;%f,%f?access_token=%s&overview=false",
		c.cfg.BaseURL, pickup.Lng, pickup.Lat, dropoff.Lng, dropoff.Lat, c.cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, geo.NewUpstreamUnavailableError("directions", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, geo.NewUpstreamUnavailableError("directions", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, 0, geo.NewUpstreamUnavailableError("directions",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, geo.NewUpstreamUnavailableError("directions", err)
	}
	if len(body.Routes) == 0 {
		return 0, 0, geo.NewUpstreamUnavailableError("directions",
			fmt.Errorf("no routes in response (code %q)", body.Code))
	}

	route := body.Routes[0]
	return route.Distance / 1000, route.Duration / 60, nil
}
