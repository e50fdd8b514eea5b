// Package geocoder wraps the external forward-geocoding service. The service
// is an opaque collaborator: every failure is reported as UpstreamUnavailable
// and recovered by the caller, never surfaced to end users.
package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

// Config holds the geocoding service settings.
type Config struct {
	BaseURL string
	Token   string
	// Country restricts results to a region, e.g. "ke".
	Country string
	// Proximity biases ranking toward the metro center.
	Proximity geo.Coordinate
	// Limit caps results per request. Kept short; local data fills the rest.
	Limit   int
	Timeout time.Duration
}

// Client is an HTTP client for the forward-geocoding service.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// New creates a geocoding client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type forwardResponse struct {
	Features []struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // [lng, lat]
	} `json:"features"`
}

// Forward geocodes a free-text query into locations, restricted to the
// configured country and biased toward the configured proximity point.
func (c *Client) Forward(ctx context.Context, query string) ([]geo.Location, error) {
	params := url.Values{}
	params.Set("access_token", c.cfg.Token)
	params.Set("country", c.cfg.Country)
	params.Set("proximity", fmt.Sprintf("%f,%f", c.cfg.Proximity.Lng, c.cfg.Proximity.Lat))
	params.Set("types", "poi,address,place")
	params.Set("limit", strconv.Itoa(c.cfg.Limit))

	reqURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.cfg.BaseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, geo.NewUpstreamUnavailableError("geocoding", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, geo.NewUpstreamUnavailableError("geocoding", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, geo.NewUpstreamUnavailableError("geocoding",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body forwardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, geo.NewUpstreamUnavailableError("geocoding", err)
	}

	locations := make([]geo.Location, 0, len(body.Features))
	for _, f := range body.Features {
		if len(f.Center) != 2 || f.Text == "" {
			continue
		}
		loc := geo.Location{
			ID:          geo.LocationID(geo.SourceExternal, f.ID),
			Name:        f.Text,
			FullAddress: f.PlaceName,
			Coordinate:  geo.Coordinate{Lat: f.Center[1], Lng: f.Center[0]},
			Source:      geo.SourceExternal,
		}
		if !loc.IsValid() {
			c.logger.Warn("geocoding returned out-of-range coordinate",
				zap.String("feature", f.ID),
				zap.Float64("lat", loc.Lat),
				zap.Float64("lng", loc.Lng),
			)
			continue
		}
		locations = append(locations, loc)
	}
	return locations, nil
}
