// Package harvester implements the offline batch job that tiles a bounding
// box, pulls named elements from the bulk map-export service, merges them
// into the persisted gazetteer dataset, and announces the update.
package harvester

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"github.com/twigaride/service-geo/internal/events"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"go.uber.org/zap"
)

// Defaults for the reference metro harvest: a 3x3 grid over a ~50km x 50km
// area, with a polite pause between tile requests.
const (
	DefaultGridRows  = 3
	DefaultGridCols  = 3
	DefaultTileDelay = 1500 * time.Millisecond
)

// nameTagFallbacks are the alternate name fields consulted when an element
// has no plain name tag, in preference order.
var nameTagFallbacks = []string{"name", "name:en", "alt_name", "official_name"}

// keptTags are the element tags worth carrying into the dataset.
var keptTags = []string{"amenity", "shop", "building", "addr:street", "addr:city"}

// EventPublisher is the contract for announcing a completed harvest.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event events.CloudEvent) error
}

// Config holds the harvest job settings.
type Config struct {
	DatasetPath string
	Box         geo.BoundingBox
	Rows        int
	Cols        int
	TileDelay   time.Duration
	// AddressSuffix completes display addresses for elements without address
	// tags, e.g. "Nairobi, Kenya".
	AddressSuffix string
}

// Summary reports what a harvest run did.
type Summary struct {
	TilesOK     int
	TilesFailed int
	Seen        int
	Added       int
	Total       int
}

// Harvester runs the batch pipeline. Tiles are queried sequentially, never in
// parallel, to stay under the export service's rate limits.
type Harvester struct {
	overpass *OverpassClient
	producer EventPublisher
	cfg      Config
	logger   *zap.Logger
}

// New creates a Harvester. producer may be nil when no event bus is wired.
func New(overpass *OverpassClient, producer EventPublisher, cfg Config, logger *zap.Logger) *Harvester {
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultGridRows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = DefaultGridCols
	}
	if cfg.TileDelay <= 0 {
		cfg.TileDelay = DefaultTileDelay
	}
	return &Harvester{
		overpass: overpass,
		producer: producer,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes one harvest: query every tile, merge against the existing
// dataset with first-seen-wins dedup, then write the merged set back in a
// single atomic write. A failed tile is logged and skipped; the job is
// idempotent and a partial harvest is recovered by the next run.
func (h *Harvester) Run(ctx context.Context) (Summary, error) {
	if !h.cfg.Box.IsValid() {
		return Summary{}, geo.NewValidationError("harvest bounding box is invalid")
	}

	existing, err := h.loadExisting()
	if err != nil {
		return Summary{}, err
	}

	merged := make([]geo.Location, len(existing))
	copy(merged, existing)

	seen := make(map[geo.DedupKey]bool, len(existing))
	for _, loc := range existing {
		seen[loc.Dedup()] = true
	}

	summary := Summary{}
	tiles := h.cfg.Box.Split(h.cfg.Rows, h.cfg.Cols)
	for i, tile := range tiles {
		if i > 0 {
			if err := sleepCtx(ctx, h.cfg.TileDelay); err != nil {
				return summary, err
			}
		}

		elements, err := h.overpass.QueryTile(ctx, tile)
		if err != nil {
			summary.TilesFailed++
			h.logger.Warn("tile query failed, continuing with next tile",
				zap.Int("tile", i),
				zap.Float64("min_lat", tile.MinLat),
				zap.Float64("min_lng", tile.MinLng),
				zap.Float64("max_lat", tile.MaxLat),
				zap.Float64("max_lng", tile.MaxLng),
				zap.Error(err),
			)
			continue
		}
		summary.TilesOK++

		for _, el := range elements {
			summary.Seen++
			loc, ok := h.normalize(el)
			if !ok {
				continue
			}
			key := loc.Dedup()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, loc)
			summary.Added++
		}

		h.logger.Info("tile harvested",
			zap.Int("tile", i),
			zap.Int("elements", len(elements)),
			zap.Int("added_so_far", summary.Added),
		)
	}

	summary.Total = len(merged)
	if err := gazetteer.WriteDataset(h.cfg.DatasetPath, merged); err != nil {
		return summary, fmt.Errorf("failed to write dataset: %w", err)
	}

	h.logger.Info("harvest complete",
		zap.Int("tiles_ok", summary.TilesOK),
		zap.Int("tiles_failed", summary.TilesFailed),
		zap.Int("seen", summary.Seen),
		zap.Int("added", summary.Added),
		zap.Int("total", summary.Total),
	)

	h.announce(ctx, summary)
	return summary, nil
}

// loadExisting reads the current dataset; a missing file means a first run
// and starts empty.
func (h *Harvester) loadExisting() ([]geo.Location, error) {
	existing, err := gazetteer.ReadDataset(h.cfg.DatasetPath, h.logger)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.logger.Info("no existing dataset, starting fresh",
				zap.String("path", h.cfg.DatasetPath),
			)
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// normalize converts a raw element into a Location. Elements without a
// resolvable name or coordinate are discarded.
func (h *Harvester) normalize(el Element) (geo.Location, bool) {
	var name string
	for _, tag := range nameTagFallbacks {
		if v := strings.TrimSpace(el.Tags[tag]); v != "" {
			name = v
			break
		}
	}
	if name == "" {
		return geo.Location{}, false
	}

	coord, ok := elementCoordinate(el)
	if !ok || !coord.IsValid() {
		return geo.Location{}, false
	}

	tags := make(map[string]string)
	for _, tag := range keptTags {
		if v := el.Tags[tag]; v != "" {
			tags[tag] = v
		}
	}

	loc := geo.Location{
		ID:          geo.LocationID(geo.SourceHarvested, fmt.Sprintf("%s/%d", el.Type, el.ID)),
		Name:        name,
		FullAddress: h.displayAddress(name, el.Tags),
		Coordinate:  coord,
		Tags:        tags,
		Source:      geo.SourceHarvested,
	}
	return loc, true
}

// elementCoordinate picks a node's own point, or the centroid the service
// reported for an area element.
func elementCoordinate(el Element) (geo.Coordinate, bool) {
	if el.Type == "node" {
		return geo.Coordinate{Lat: el.Lat, Lng: el.Lon}, true
	}
	if el.Center != nil {
		return geo.Coordinate{Lat: el.Center.Lat, Lng: el.Center.Lon}, true
	}
	return geo.Coordinate{}, false
}

func (h *Harvester) displayAddress(name string, tags map[string]string) string {
	parts := []string{name}
	if street := tags["addr:street"]; street != "" {
		parts = append(parts, street)
	}
	if city := tags["addr:city"]; city != "" {
		parts = append(parts, city)
	} else if h.cfg.AddressSuffix != "" {
		parts = append(parts, h.cfg.AddressSuffix)
	}
	return strings.Join(parts, ", ")
}

func (h *Harvester) announce(ctx context.Context, summary Summary) {
	if h.producer == nil {
		return
	}

	evt := events.DatasetUpdatedEvent{
		DatasetPath: h.cfg.DatasetPath,
		Total:       summary.Total,
		Added:       summary.Added,
		TilesOK:     summary.TilesOK,
		TilesFailed: summary.TilesFailed,
		OccurredAt:  time.Now().UTC(),
	}
	ce, err := events.NewCloudEvent("geo-harvester", events.GeoDatasetUpdated, evt)
	if err != nil {
		h.logger.Error("failed to build dataset event", zap.Error(err))
		return
	}
	if err := h.producer.PublishEvent(ctx, events.TopicGeoEvents, ce); err != nil {
		// The dataset on disk is already correct; the service picks it up on
		// its next restart or manual reload.
		h.logger.Error("failed to publish dataset event", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
