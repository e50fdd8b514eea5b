// Package gazetteer holds the curated landmark dataset backing fast local
// resolution: a flat, versioned, in-memory set of named points of interest
// with substring and fuzzy lookup. Read-only at serving time.
package gazetteer

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/twigaride/service-geo/internal/domain/geo"
	"go.uber.org/zap"
)

// DefaultSearchLimit caps search results when the caller passes no limit.
const DefaultSearchLimit = 8

// nearMissMaxDistance is the levenshtein distance tolerated by the fuzzy
// fallback tier.
const nearMissMaxDistance = 2

// nearMissMinQueryLen keeps the fuzzy tier away from very short queries,
// where an edit distance of 2 matches almost anything.
const nearMissMinQueryLen = 4

// Match ranking tiers, best first.
const (
	rankExact = iota
	rankSubstring
	rankTokenOverlap
	rankNearMiss
)

type indexEntry struct {
	nameLower string
	addrLower string
	tokens    []string
}

// Gazetteer is an immutable snapshot of the location dataset plus a
// precomputed lowercase search index. Snapshots are never mutated in place;
// reloads build a fresh one.
type Gazetteer struct {
	locations []geo.Location
	index     []indexEntry
}

// New builds a gazetteer snapshot over the given locations.
func New(locations []geo.Location) *Gazetteer {
	index := make([]indexEntry, len(locations))
	for i, loc := range locations {
		nameLower := geo.NormalizeName(loc.Name)
		index[i] = indexEntry{
			nameLower: nameLower,
			addrLower: geo.NormalizeName(loc.FullAddress),
			tokens:    strings.Fields(nameLower),
		}
	}
	return &Gazetteer{locations: locations, index: index}
}

// Load reads the dataset file and builds a snapshot over it.
func Load(path string, logger *zap.Logger) (*Gazetteer, error) {
	locations, err := ReadDataset(path, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("gazetteer loaded",
		zap.String("path", path),
		zap.Int("entries", len(locations)),
	)
	return New(locations), nil
}

// Len returns the number of entries in the snapshot.
func (g *Gazetteer) Len() int {
	return len(g.locations)
}

// Locations returns the underlying entries. Callers must not mutate them.
func (g *Gazetteer) Locations() []geo.Location {
	return g.locations
}

// Search returns up to limit locations matching the query, ordered by match
// quality: exact name, substring containment in either direction on name or
// address, token overlap for compound names, then levenshtein near-misses.
// Ties break toward shorter names, which prefers landmarks over road
// segments. All matching is case-insensitive.
func (g *Gazetteer) Search(query string, limit int) []geo.Location {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := geo.NormalizeName(query)
	if q == "" {
		return nil
	}

	// A known abbreviation resolves to its canonical entry outright.
	if canonical := canonicalAlias(query); canonical != "" {
		if hits := g.exactMatches(geo.NormalizeName(canonical), limit); len(hits) > 0 {
			return hits
		}
	}

	type scored struct {
		rank int
		loc  geo.Location
	}
	var matches []scored

	qTokens := strings.Fields(q)
	for i, entry := range g.index {
		rank, ok := matchRank(q, qTokens, entry)
		if !ok {
			continue
		}
		matches = append(matches, scored{rank: rank, loc: g.locations[i]})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].rank != matches[b].rank {
			return matches[a].rank < matches[b].rank
		}
		return len(matches[a].loc.Name) < len(matches[b].loc.Name)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]geo.Location, len(matches))
	for i, m := range matches {
		results[i] = m.loc
	}
	return results
}

func (g *Gazetteer) exactMatches(nameLower string, limit int) []geo.Location {
	var hits []geo.Location
	for i, entry := range g.index {
		if entry.nameLower == nameLower {
			hits = append(hits, g.locations[i])
			if len(hits) == limit {
				break
			}
		}
	}
	return hits
}

func matchRank(q string, qTokens []string, entry indexEntry) (int, bool) {
	if entry.nameLower == q {
		return rankExact, true
	}
	if strings.Contains(entry.nameLower, q) || strings.Contains(q, entry.nameLower) {
		return rankSubstring, true
	}
	if entry.addrLower != "" && (strings.Contains(entry.addrLower, q) || strings.Contains(q, entry.addrLower)) {
		return rankSubstring, true
	}
	if tokensOverlap(qTokens, entry.tokens) {
		return rankTokenOverlap, true
	}
	if nearMiss(q, qTokens, entry) {
		return rankNearMiss, true
	}
	return 0, false
}

// nearMiss tolerates small typos, comparing the whole query against the whole
// name and each query token against each name token.
func nearMiss(q string, qTokens []string, entry indexEntry) bool {
	if len(q) >= nearMissMinQueryLen && levenshtein.ComputeDistance(q, entry.nameLower) <= nearMissMaxDistance {
		return true
	}
	for _, qt := range qTokens {
		if len(qt) < nearMissMinQueryLen {
			continue
		}
		for _, nt := range entry.tokens {
			if levenshtein.ComputeDistance(qt, nt) <= nearMissMaxDistance {
				return true
			}
		}
	}
	return false
}

// tokensOverlap reports whether any token of one side is a substring of any
// token of the other, which catches compound names like "westgate mall" vs
// a query of "westgate".
func tokensOverlap(qTokens, nameTokens []string) bool {
	for _, qt := range qTokens {
		for _, nt := range nameTokens {
			if strings.Contains(nt, qt) || strings.Contains(qt, nt) {
				return true
			}
		}
	}
	return false
}
