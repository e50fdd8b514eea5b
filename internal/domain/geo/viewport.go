package geo

// Viewport is the center point and discrete zoom level framing a set of
// points on a map display. Derived, never persisted.
type Viewport struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
}

const (
	// singlePointZoom frames a lone point at street level.
	singlePointZoom = 14
	// fallbackZoom frames the whole metro when the input is degenerate.
	fallbackZoom = 11
)

// fallbackCenter is the Nairobi CBD, used when a computed center is invalid.
var fallbackCenter = Coordinate{Lat: -1.2864, Lng: 36.8172}

// zoomSteps maps a span distance threshold (km, exclusive lower bound) to the
// zoom level that frames it with margin. Checked in order.
var zoomSteps = []struct {
	aboveKm float64
	zoom    int
}{
	{50, 9},
	{25, 10},
	{10, 11},
	{5, 12},
	{2, 13},
	{1, 14},
}

// FitViewport computes the viewport framing the given points. One point
// centers on it at a fixed zoom; two or more points center on the midpoint of
// the coordinate extents and pick zoom from the distance step table. Calling
// with no points is a caller bug.
func FitViewport(points []Coordinate) (Viewport, error) {
	if len(points) == 0 {
		return Viewport{}, NewValidationError("viewport requires at least one point")
	}

	if len(points) == 1 {
		if !points[0].IsValid() {
			return Viewport{Center: fallbackCenter, Zoom: fallbackZoom}, nil
		}
		return Viewport{Center: points[0], Zoom: singlePointZoom}, nil
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lng < minLng {
			minLng = p.Lng
		}
		if p.Lng > maxLng {
			maxLng = p.Lng
		}
	}

	// Midpoint of the extents, not the mean of the points, so that the
	// framing stays correct for more than two points.
	center := Coordinate{
		Lat: (minLat + maxLat) / 2,
		Lng: (minLng + maxLng) / 2,
	}
	if !center.IsValid() {
		return Viewport{Center: fallbackCenter, Zoom: fallbackZoom}, nil
	}

	span := Haversine(
		Coordinate{Lat: minLat, Lng: minLng},
		Coordinate{Lat: maxLat, Lng: maxLng},
	)
	return Viewport{Center: center, Zoom: zoomForSpan(span)}, nil
}

func zoomForSpan(spanKm float64) int {
	for _, step := range zoomSteps {
		if spanKm > step.aboveKm {
			return step.zoom
		}
	}
	return 15
}
