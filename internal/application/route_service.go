package application

import (
	"context"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

const (
	// fallbackSpeedKmh is the average urban driving speed assumed when the
	// directions service is unavailable.
	fallbackSpeedKmh = 25.0
	// roadInflationFactor stretches a straight-line distance toward a
	// plausible road distance. Applied only in quote mode, where an
	// underestimated fare is worse than an approximate one; display mode
	// reports the plain great-circle figure.
	roadInflationFactor = 1.30
)

// DirectionsClient is the contract for the external directions service.
type DirectionsClient interface {
	// Drive returns driving distance in kilometers and duration in minutes.
	Drive(ctx context.Context, pickup, dropoff geo.Coordinate) (float64, float64, error)
}

// RouteService estimates travel between two resolved coordinates, preferring
// the directions service and degrading to a great-circle estimate. No retries
// beyond the single fallback: the UI needs a bounded-latency answer, and an
// estimated figure beats a hung request.
type RouteService struct {
	directions DirectionsClient
	fare       geo.FareStrategy
	logger     *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(directions DirectionsClient, fare geo.FareStrategy, logger *zap.Logger) *RouteService {
	return &RouteService{
		directions: directions,
		fare:       fare,
		logger:     logger,
	}
}

// TripEstimate is the composite answer the booking UI consumes.
type TripEstimate struct {
	Route    geo.RouteResult `json:"route"`
	Price    geo.PriceQuote  `json:"price"`
	Viewport geo.Viewport    `json:"viewport"`
}

// EstimateForDisplay estimates a route for interactive map display. The
// fallback reports the plain great-circle distance, uninflated.
func (s *RouteService) EstimateForDisplay(ctx context.Context, pickup, dropoff geo.Coordinate) (geo.RouteResult, error) {
	return s.estimate(ctx, pickup, dropoff, false)
}

// EstimateForQuote estimates a route for fare calculation. The fallback
// inflates the great-circle distance by roadInflationFactor to approximate
// real road distance before it reaches the fare formula.
func (s *RouteService) EstimateForQuote(ctx context.Context, pickup, dropoff geo.Coordinate) (geo.RouteResult, error) {
	return s.estimate(ctx, pickup, dropoff, true)
}

// EstimateTrip bundles the quote-mode route with its fare and a viewport
// framing both endpoints.
func (s *RouteService) EstimateTrip(ctx context.Context, pickup, dropoff geo.Coordinate) (*TripEstimate, error) {
	route, err := s.EstimateForQuote(ctx, pickup, dropoff)
	if err != nil {
		return nil, err
	}

	price, err := s.fare.Quote(route.DistanceKm)
	if err != nil {
		return nil, err
	}

	viewport, err := geo.FitViewport([]geo.Coordinate{pickup, dropoff})
	if err != nil {
		return nil, err
	}

	return &TripEstimate{
		Route:    route,
		Price:    price,
		Viewport: viewport,
	}, nil
}

// Quote exposes the fare strategy to callers that already hold a distance.
func (s *RouteService) Quote(distanceKm float64) (geo.PriceQuote, error) {
	return s.fare.Quote(distanceKm)
}

func (s *RouteService) estimate(ctx context.Context, pickup, dropoff geo.Coordinate, inflate bool) (geo.RouteResult, error) {
	// Reaching this stage with an unresolved coordinate is an upstream bug,
	// not a user error.
	if err := pickup.Validate(); err != nil {
		return geo.RouteResult{}, err
	}
	if err := dropoff.Validate(); err != nil {
		return geo.RouteResult{}, err
	}

	distanceKm, durationMin, err := s.directions.Drive(ctx, pickup, dropoff)
	if err == nil {
		return geo.RouteResult{
			DistanceKm:  distanceKm,
			DurationMin: durationMin,
			Method:      geo.MethodRouted,
		}, nil
	}

	s.logger.Warn("directions service failed, using great-circle fallback",
		zap.Float64("pickup_lat", pickup.Lat),
		zap.Float64("pickup_lng", pickup.Lng),
		zap.Float64("dropoff_lat", dropoff.Lat),
		zap.Float64("dropoff_lng", dropoff.Lng),
		zap.Bool("inflate", inflate),
		zap.Error(err),
	)

	km := geo.Haversine(pickup, dropoff)
	if inflate {
		km *= roadInflationFactor
	}
	return geo.RouteResult{
		DistanceKm:  km,
		DurationMin: km / fallbackSpeedKmh * 60,
		Method:      geo.MethodStraightLine,
	}, nil
}
