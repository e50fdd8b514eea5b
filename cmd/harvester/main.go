// The harvester is a standalone batch job run on a schedule. It tiles the
// configured bounding box, pulls named elements from the bulk map-export
// service, merges them into the gazetteer dataset, and announces the update.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/twigaride/service-geo/internal/config"
	"github.com/twigaride/service-geo/internal/domain/geo"
	"github.com/twigaride/service-geo/internal/events"
	"github.com/twigaride/service-geo/internal/harvester"
	"github.com/twigaride/service-geo/internal/logger"
	"go.uber.org/zap"
)

func main() {
	// A local .env is a convenience for operators; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadHarvest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(os.Getenv("GEO_APP_ENV"), "geo-harvester")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	overpass := harvester.NewOverpassClient(harvester.OverpassConfig{
		BaseURL: cfg.OverpassURL,
		Timeout: cfg.Timeout,
	}, log)

	var producer harvester.EventPublisher
	if cfg.Kafka.Enabled() {
		p := events.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = p.Close() }()
		producer = p
	}

	job := harvester.New(overpass, producer, harvester.Config{
		DatasetPath: cfg.DatasetPath,
		Box: geo.BoundingBox{
			MinLat: cfg.MinLat,
			MinLng: cfg.MinLng,
			MaxLat: cfg.MaxLat,
			MaxLng: cfg.MaxLng,
		},
		Rows:          cfg.Rows,
		Cols:          cfg.Cols,
		TileDelay:     cfg.TileDelay,
		AddressSuffix: cfg.AddressSuffix,
	}, log)

	log.Info("starting harvest",
		zap.Float64("min_lat", cfg.MinLat),
		zap.Float64("min_lng", cfg.MinLng),
		zap.Float64("max_lat", cfg.MaxLat),
		zap.Float64("max_lng", cfg.MaxLng),
		zap.Int("rows", cfg.Rows),
		zap.Int("cols", cfg.Cols),
	)

	summary, err := job.Run(ctx)
	if err != nil {
		log.Error("harvest failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("harvest finished",
		zap.Int("tiles_ok", summary.TilesOK),
		zap.Int("tiles_failed", summary.TilesFailed),
		zap.Int("added", summary.Added),
		zap.Int("total", summary.Total),
	)
}
