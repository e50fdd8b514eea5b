package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/twigaride/service-geo/internal/application"
	"github.com/twigaride/service-geo/internal/config"
	"github.com/twigaride/service-geo/internal/domain/geo"
	geoEvents "github.com/twigaride/service-geo/internal/events"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"github.com/twigaride/service-geo/internal/geocoder"
	"github.com/twigaride/service-geo/internal/handler"
	"github.com/twigaride/service-geo/internal/logger"
	"github.com/twigaride/service-geo/internal/middleware"
	"github.com/twigaride/service-geo/internal/routing"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-geo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-geo",
		zap.String("port", cfg.Port),
		zap.String("dataset", cfg.DatasetPath),
	)

	// Load the gazetteer dataset. A corrupt dataset is the one fatal startup
	// condition; everything else degrades.
	store, err := gazetteer.NewStore(cfg.DatasetPath, log)
	if err != nil {
		log.Fatal("failed to load gazetteer dataset", zap.Error(err))
	}

	// Initialize external service clients
	geocodeClient := geocoder.New(geocoder.Config{
		BaseURL: cfg.Geocoding.BaseURL,
		Token:   cfg.Geocoding.Token,
		Country: cfg.Geocoding.Country,
		Proximity: geo.Coordinate{
			Lat: cfg.Geocoding.ProximityLat,
			Lng: cfg.Geocoding.ProximityLng,
		},
		Limit:   cfg.Geocoding.Limit,
		Timeout: cfg.Geocoding.Timeout,
	}, log)

	directionsClient := routing.New(routing.Config{
		BaseURL: cfg.Directions.BaseURL,
		Token:   cfg.Directions.Token,
		Timeout: cfg.Directions.Timeout,
	}, log)

	// Initialize application services
	resolverService := application.NewResolverService(store, geocodeClient, log)
	routeService := application.NewRouteService(directionsClient, geo.NewStandardFareStrategy(), log)

	// Start the dataset event consumer when a broker is configured
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled() {
		groupID := cfg.Kafka.GroupPrefix + "geo-service"
		datasetConsumer := geoEvents.NewDatasetEventConsumer(cfg.Kafka.Brokers, groupID, store, log)
		defer func() { _ = datasetConsumer.Close() }()

		go func() {
			log.Info("starting dataset event consumer")
			if err := datasetConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("dataset event consumer error", zap.Error(err))
			}
		}()
	} else {
		log.Info("kafka not configured; gazetteer reloads via admin endpoint or restart only")
	}

	// Initialize HTTP handlers
	geoHandler := handler.NewGeoHandler(resolverService, routeService)
	adminHandler := handler.NewAdminHandler(store)
	healthHandler := handler.NewHealthHandler(store, "service-geo")

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register routes
	healthHandler.RegisterRoutes(router)
	geoHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-geo...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-geo stopped")
}
