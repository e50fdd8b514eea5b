package harvester

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

// overpassQueryTimeoutSec is the server-side timeout requested per tile query.
const overpassQueryTimeoutSec = 25

// OverpassConfig holds the bulk map-export service settings.
type OverpassConfig struct {
	BaseURL string
	Timeout time.Duration
}

// OverpassClient queries the bulk open-map export service for named elements
// within a bounding box.
type OverpassClient struct {
	cfg    OverpassConfig
	http   *http.Client
	logger *zap.Logger
}

// NewOverpassClient creates an Overpass client.
func NewOverpassClient(cfg OverpassConfig, logger *zap.Logger) *OverpassClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OverpassClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Element is a raw map element: a node carries its own coordinate, a way or
// relation carries the centroid the service computed for it.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *ElementCenter    `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

// ElementCenter is the centroid of an area element.
type ElementCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type overpassResponse struct {
	Elements []Element `json:"elements"`
}

// QueryTile fetches named elements, amenities, shops, and buildings within
// the tile.
func (c *OverpassClient) QueryTile(ctx context.Context, tile geo.BoundingBox) ([]Element, error) {
	bbox := fmt.Sprintf("%f,%f,%f,%f", tile.MinLat, tile.MinLng, tile.MaxLat, tile.MaxLng)

	var q strings.Builder
	fmt.Fprintf(&q, "[out:json][timeout:%d];(", overpassQueryTimeoutSec)
	fmt.Fprintf(&q, `node["name"](%s);`, bbox)
	for _, tag := range []string{"amenity", "shop", "building"} {
		fmt.Fprintf(&q, `way["name"][%q](%s);`, tag, bbox)
		fmt.Fprintf(&q, `relation["name"][%q](%s);`, tag, bbox)
	}
	q.WriteString(");out center;")

	form := url.Values{}
	form.Set("data", q.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, geo.NewUpstreamUnavailableError("overpass", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, geo.NewUpstreamUnavailableError("overpass", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, geo.NewUpstreamUnavailableError("overpass",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, geo.NewUpstreamUnavailableError("overpass", err)
	}

	return body.Elements, nil
}
