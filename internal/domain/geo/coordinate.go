package geo

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle math.
const earthRadiusKm = 6371.0

// Coordinate is a WGS84 point. Latitude and longitude are only meaningful
// together; a Coordinate is either jointly valid or rejected outright.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid reports whether the coordinate lies within valid WGS84 ranges.
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Validate returns an InvalidCoordinateError if the coordinate is out of range.
func (c Coordinate) Validate() error {
	if !c.IsValid() {
		return NewInvalidCoordinateError(c.Lat, c.Lng)
	}
	return nil
}

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180

	dLat := lat2 - lat1
	dLng := lng2 - lng1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundingBox is a geographic rectangle delimited by its south-west and
// north-east corners.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// IsValid reports whether both corners are valid and correctly ordered.
func (b BoundingBox) IsValid() bool {
	sw := Coordinate{Lat: b.MinLat, Lng: b.MinLng}
	ne := Coordinate{Lat: b.MaxLat, Lng: b.MaxLng}
	return sw.IsValid() && ne.IsValid() && b.MinLat <= b.MaxLat && b.MinLng <= b.MaxLng
}

// Split divides the box into a rows x cols grid of sub-boxes, row-major from
// the south-west corner.
func (b BoundingBox) Split(rows, cols int) []BoundingBox {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	latStep := (b.MaxLat - b.MinLat) / float64(rows)
	lngStep := (b.MaxLng - b.MinLng) / float64(cols)

	tiles := make([]BoundingBox, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tiles = append(tiles, BoundingBox{
				MinLat: b.MinLat + float64(r)*latStep,
				MinLng: b.MinLng + float64(c)*lngStep,
				MaxLat: b.MinLat + float64(r+1)*latStep,
				MaxLng: b.MinLng + float64(c+1)*lngStep,
			})
		}
	}
	return tiles
}
