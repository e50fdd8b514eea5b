package application

import (
	"context"
	"math"

	"github.com/twigaride/service-geo/internal/domain/geo"
	"github.com/twigaride/service-geo/internal/gazetteer"
	"go.uber.org/zap"
)

const (
	// minQueryLen rejects noisy single-character lookups.
	minQueryLen = 2
	// externalQueryMinLen is the shortest query worth an external round trip.
	externalQueryMinLen = 3
	// localSufficientCount skips the external call when the gazetteer alone
	// already yields this many hits.
	localSufficientCount = 3
	// duplicateProximityDeg treats two candidates within this many degrees on
	// both axes (about 100m) as the same place.
	duplicateProximityDeg = 0.001
)

// GeocodeClient is the contract for the external forward-geocoding service.
type GeocodeClient interface {
	Forward(ctx context.Context, query string) ([]geo.Location, error)
}

// ResolverService turns free-text place queries into ranked location
// candidates by combining gazetteer matches with external geocoding results.
type ResolverService struct {
	store    *gazetteer.Store
	geocoder GeocodeClient
	logger   *zap.Logger
}

// NewResolverService creates a new ResolverService.
func NewResolverService(store *gazetteer.Store, geocoder GeocodeClient, logger *zap.Logger) *ResolverService {
	return &ResolverService{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Resolve returns up to limit candidates for the query, local matches first.
// Queries shorter than two characters yield an empty result without touching
// any service. External failures degrade to local-only results; Resolve never
// returns an error to the caller, and an empty list is a valid outcome the
// caller renders as "not found".
func (s *ResolverService) Resolve(ctx context.Context, query string, limit int) []geo.SearchCandidate {
	if limit <= 0 {
		limit = gazetteer.DefaultSearchLimit
	}
	if len(query) < minQueryLen {
		return []geo.SearchCandidate{}
	}

	local := s.store.Gazetteer().Search(query, limit)
	candidates := make([]geo.SearchCandidate, 0, limit)
	for _, loc := range local {
		candidates = append(candidates, geo.SearchCandidate{
			Location:   loc,
			Provenance: geo.ProvenanceLocal,
		})
	}

	if len(local) < localSufficientCount && len(query) >= externalQueryMinLen {
		external, err := s.geocoder.Forward(ctx, query)
		if err != nil {
			// Degrade to local-only results. The UI gets a present, if
			// thinner, answer rather than an error.
			s.logger.Warn("external geocoding failed, serving local results only",
				zap.String("query", query),
				zap.Error(err),
			)
		}
		for _, loc := range external {
			ext := geo.SearchCandidate{Location: loc, Provenance: geo.ProvenanceExternal}
			if isDuplicate(candidates, ext) {
				// Curated data wins over external: it carries better local naming.
				continue
			}
			candidates = append(candidates, ext)
		}
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// isDuplicate reports whether the candidate repeats one already kept: either
// both coordinates agree within duplicateProximityDeg on each axis, or the
// normalized names are equal.
func isDuplicate(kept []geo.SearchCandidate, candidate geo.SearchCandidate) bool {
	name := geo.NormalizeName(candidate.Name)
	for _, existing := range kept {
		if math.Abs(existing.Lat-candidate.Lat) <= duplicateProximityDeg &&
			math.Abs(existing.Lng-candidate.Lng) <= duplicateProximityDeg {
			return true
		}
		if geo.NormalizeName(existing.Name) == name {
			return true
		}
	}
	return false
}
