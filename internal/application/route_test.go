package application

import (
	"context"
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

type fakeDirections struct {
	calls       int
	distanceKm  float64
	durationMin float64
	err         error
}

func (f *fakeDirections) Drive(ctx context.Context, pickup, dropoff geo.Coordinate) (float64, float64, error) {
	f.calls++
	return f.distanceKm, f.durationMin, f.err
}

func newRouteService(directions DirectionsClient) *RouteService {
	return NewRouteService(directions, geo.NewStandardFareStrategy(), zap.NewNop())
}

func TestEstimateForDisplay_UsesDirectionsService(t *testing.T) {
	fake := &fakeDirections{distanceKm: 15.2, durationMin: 28}
	svc := newRouteService(fake)

	result, err := svc.EstimateForDisplay(context.Background(), jkia, cbd)
	require.NoError(t, err)
	assert.Equal(t, geo.MethodRouted, result.Method)
	assert.Equal(t, 15.2, result.DistanceKm)
	assert.Equal(t, 28.0, result.DurationMin)
	assert.Equal(t, 1, fake.calls)
}

func TestEstimateForDisplay_FallbackIsPlainHaversine(t *testing.T) {
	fake := &fakeDirections{err: geo.NewUpstreamUnavailableError("directions", assert.AnError)}
	svc := newRouteService(fake)

	result, err := svc.EstimateForDisplay(context.Background(), jkia, cbd)
	require.NoError(t, err)
	assert.Equal(t, geo.MethodStraightLine, result.Method)
	assert.InDelta(t, 12.6, result.DistanceKm, 0.3)
	assert.InDelta(t, result.DistanceKm/25*60, result.DurationMin, 1e-9)
}

func TestEstimateForDisplay_FallbackIsSymmetric(t *testing.T) {
	fake := &fakeDirections{err: geo.NewUpstreamUnavailableError("directions", assert.AnError)}
	svc := newRouteService(fake)

	ab, err := svc.EstimateForDisplay(context.Background(), jkia, cbd)
	require.NoError(t, err)
	ba, err := svc.EstimateForDisplay(context.Background(), cbd, jkia)
	require.NoError(t, err)
	assert.Equal(t, ab.DistanceKm, ba.DistanceKm)
}

func TestEstimateForQuote_FallbackInflatesRoadDistance(t *testing.T) {
	fake := &fakeDirections{err: geo.NewUpstreamUnavailableError("directions", assert.AnError)}
	svc := newRouteService(fake)

	display, err := svc.EstimateForDisplay(context.Background(), jkia, cbd)
	require.NoError(t, err)
	quoted, err := svc.EstimateForQuote(context.Background(), jkia, cbd)
	require.NoError(t, err)

	assert.Equal(t, geo.MethodStraightLine, quoted.Method)
	assert.InDelta(t, display.DistanceKm*roadInflationFactor, quoted.DistanceKm, 1e-9)
	assert.InDelta(t, quoted.DistanceKm/25*60, quoted.DurationMin, 1e-9)
}

func TestEstimateForQuote_NoInflationWhenRouted(t *testing.T) {
	fake := &fakeDirections{distanceKm: 16.4, durationMin: 31}
	svc := newRouteService(fake)

	result, err := svc.EstimateForQuote(context.Background(), jkia, cbd)
	require.NoError(t, err)
	assert.Equal(t, geo.MethodRouted, result.Method)
	assert.Equal(t, 16.4, result.DistanceKm)
}

func TestEstimate_InvalidCoordinateIsContractViolation(t *testing.T) {
	fake := &fakeDirections{}
	svc := newRouteService(fake)

	_, err := svc.EstimateForDisplay(context.Background(), geo.Coordinate{Lat: 95, Lng: 0}, cbd)
	require.Error(t, err)
	assert.True(t, geo.IsCode(err, geo.CodeInvalidCoordinate))

	_, err = svc.EstimateForQuote(context.Background(), jkia, geo.Coordinate{Lat: 0, Lng: 181})
	require.Error(t, err)
	assert.True(t, geo.IsCode(err, geo.CodeInvalidCoordinate))

	assert.Zero(t, fake.calls, "directions must not be called with invalid input")
}

func TestEstimateTrip_ComposesRoutePriceAndViewport(t *testing.T) {
	fake := &fakeDirections{distanceKm: 12.6, durationMin: 32}
	svc := newRouteService(fake)

	trip, err := svc.EstimateTrip(context.Background(), jkia, cbd)
	require.NoError(t, err)

	assert.Equal(t, geo.MethodRouted, trip.Route.Method)
	// 12.6km x 30 = 378, rounded to nearest 10.
	assert.Equal(t, int64(380), trip.Price.Amount)
	assert.Equal(t, geo.CurrencyKES, trip.Price.Currency)
	// JKIA and the CBD are ~12.6km apart: the step table frames that at 11.
	assert.Equal(t, 11, trip.Viewport.Zoom)
	assert.InDelta(t, (jkia.Lat+cbd.Lat)/2, trip.Viewport.Center.Lat, 1e-9)
	assert.InDelta(t, (jkia.Lng+cbd.Lng)/2, trip.Viewport.Center.Lng, 1e-9)
}

func TestQuote_PassesThroughFareStrategy(t *testing.T) {
	svc := newRouteService(&fakeDirections{})

	quote, err := svc.Quote(0)
	require.NoError(t, err)
	assert.Equal(t, int64(geo.MinimumFare), quote.Amount)

	_, err = svc.Quote(-4)
	require.Error(t, err)
	assert.True(t, geo.IsCode(err, geo.CodeValidation))
}
