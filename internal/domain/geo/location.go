package geo

import (
	"fmt"
	"math"
	"strings"
)

// Source identifies where a location entry originated.
type Source string

const (
	// SourceCurated marks hand-maintained gazetteer entries.
	SourceCurated Source = "curated"
	// SourceHarvested marks entries produced by the offline harvest job.
	SourceHarvested Source = "harvested"
	// SourceExternal marks transient entries returned by the geocoding service.
	SourceExternal Source = "external"
)

// IsValid returns true if the source is a recognized location source.
func (s Source) IsValid() bool {
	switch s {
	case SourceCurated, SourceHarvested, SourceExternal:
		return true
	}
	return false
}

// Location is a named point of interest. Coordinates are validated before a
// Location enters the gazetteer; an entry with an out-of-range coordinate is
// rejected, never stored partially.
type Location struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	FullAddress string            `json:"full_address"`
	Coordinate
	Tags   map[string]string `json:"tags,omitempty"`
	Source Source            `json:"source"`
}

// Validate checks the invariants required before an entry may enter the
// gazetteer.
func (l Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return NewValidationError("location name is required")
	}
	if !l.Source.IsValid() {
		return NewValidationError(fmt.Sprintf("unknown location source %q", l.Source))
	}
	return l.Coordinate.Validate()
}

// LocationID derives the stable identifier for a location from its source and
// a stable key. Re-harvesting the same element always yields the same ID.
func LocationID(source Source, stableKey string) string {
	return fmt.Sprintf("%s:%s", source, stableKey)
}

// NormalizeName lowercases a place name and collapses internal whitespace so
// that name comparisons are insensitive to casing and spacing.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// DedupKey is the normalized identity used to recognize that two records
// describe the same real-world place.
type DedupKey struct {
	Name  string
	LatE5 int64
	LngE5 int64
}

// Dedup returns the location's dedup key: normalized name plus coordinates
// rounded to 5 decimal places (about one meter).
func (l Location) Dedup() DedupKey {
	return DedupKey{
		Name:  NormalizeName(l.Name),
		LatE5: int64(math.Round(l.Lat * 1e5)),
		LngE5: int64(math.Round(l.Lng * 1e5)),
	}
}

// Provenance tags where a search candidate was matched, used only for
// ordering. Never persisted.
type Provenance string

const (
	// ProvenanceLocal marks a gazetteer match.
	ProvenanceLocal Provenance = "local"
	// ProvenanceExternal marks a geocoding service match.
	ProvenanceExternal Provenance = "external"
)

// SearchCandidate is a ranked, transient projection of a Location returned to
// resolution callers.
type SearchCandidate struct {
	Location
	Provenance Provenance `json:"provenance"`
}
