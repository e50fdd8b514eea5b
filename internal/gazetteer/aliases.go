package gazetteer

import "github.com/twigaride/service-geo/internal/domain/geo"

// aliases maps common informal abbreviations to canonical gazetteer names, so
// very short queries like "JKIA" resolve deterministically before falling
// through to substring and token matching.
var aliases = map[string]string{
	"jkia":    "Jomo Kenyatta International Airport",
	"jomo":    "Jomo Kenyatta International Airport",
	"airport": "Jomo Kenyatta International Airport",
	"cbd":     "Nairobi CBD",
	"town":    "Nairobi CBD",
	"uon":     "University of Nairobi",
	"ku":      "Kenyatta University",
	"knh":     "Kenyatta National Hospital",
	"kicc":    "Kenyatta International Convention Centre",
	"tm":      "T-Mall Nairobi",
	"gpo":     "General Post Office Nairobi",
}

// canonicalAlias returns the canonical name for a known abbreviation, or ""
// when the query is not an alias.
func canonicalAlias(query string) string {
	return aliases[geo.NormalizeName(query)]
}
