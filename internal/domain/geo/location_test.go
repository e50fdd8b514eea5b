package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jomo kenyatta international airport", NormalizeName("  Jomo   Kenyatta\tInternational Airport "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestLocation_DedupKey(t *testing.T) {
	a := Location{Name: "Westgate Mall", Coordinate: Coordinate{Lat: -1.25672, Lng: 36.80341}}
	b := Location{Name: "WESTGATE  MALL", Coordinate: Coordinate{Lat: -1.256720, Lng: 36.803410}}
	assert.Equal(t, a.Dedup(), b.Dedup())

	// A 5th-decimal difference is a different place.
	c := Location{Name: "Westgate Mall", Coordinate: Coordinate{Lat: -1.25673, Lng: 36.80341}}
	assert.NotEqual(t, a.Dedup(), c.Dedup())
}

func TestLocationID_Stable(t *testing.T) {
	assert.Equal(t, LocationID(SourceHarvested, "node/42"), LocationID(SourceHarvested, "node/42"))
	assert.Equal(t, "harvested:node/42", LocationID(SourceHarvested, "node/42"))
	assert.NotEqual(t, LocationID(SourceCurated, "node/42"), LocationID(SourceHarvested, "node/42"))
}

func TestLocation_Validate(t *testing.T) {
	valid := Location{
		ID:         LocationID(SourceCurated, "jkia"),
		Name:       "Jomo Kenyatta International Airport",
		Coordinate: jkia,
		Source:     SourceCurated,
	}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Name = "  "
	assert.True(t, IsCode(noName.Validate(), CodeValidation))

	badCoord := valid
	badCoord.Lat = 120
	assert.True(t, IsCode(badCoord.Validate(), CodeInvalidCoordinate))

	badSource := valid
	badSource.Source = "scraped"
	assert.True(t, IsCode(badSource.Validate(), CodeValidation))
}
