package geo

import "math"

// Fare constants for the standard tariff.
const (
	// PricePerKm is the per-kilometer rate in KES.
	PricePerKm = 30.0
	// MinimumFare is the floor applied to every quote, in KES.
	MinimumFare = 200
	// fareRoundingStep rounds quotes to the nearest 10 KES.
	fareRoundingStep = 10
)

// CurrencyKES is the ISO 4217 code for Kenyan shillings.
const CurrencyKES = "KES"

// PriceQuote is a bounded, rounded fare derived from a distance. It is never
// stored independently of the distance that produced it.
type PriceQuote struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// FareStrategy defines the interface for mapping a distance to a quote.
type FareStrategy interface {
	// Quote returns the fare for the given distance in kilometers.
	Quote(distanceKm float64) (PriceQuote, error)
}

// StandardFareStrategy implements the default tariff: 30 KES/km with a 200 KES
// floor, rounded to the nearest 10.
type StandardFareStrategy struct{}

// NewStandardFareStrategy creates a new StandardFareStrategy.
func NewStandardFareStrategy() *StandardFareStrategy {
	return &StandardFareStrategy{}
}

// Quote computes the fare. Negative distance is a programming error upstream
// and is rejected.
func (s *StandardFareStrategy) Quote(distanceKm float64) (PriceQuote, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return PriceQuote{}, NewValidationError("distance cannot be negative")
	}

	base := distanceKm * PricePerKm
	withFloor := math.Max(base, MinimumFare)
	final := math.Round(withFloor/fareRoundingStep) * fareRoundingStep

	return PriceQuote{
		Amount:   int64(final),
		Currency: CurrencyKES,
	}, nil
}
