package geo

// RouteMethod tells callers how a route estimate was produced.
type RouteMethod string

const (
	// MethodRouted means the external directions service supplied the figures.
	MethodRouted RouteMethod = "routed"
	// MethodStraightLine means the estimate is a great-circle fallback. In
	// quote mode the distance already includes the road inflation factor.
	MethodStraightLine RouteMethod = "straightLine"
)

// RouteResult is the distance and duration estimate between two points.
type RouteResult struct {
	DistanceKm  float64     `json:"distance_km"`
	DurationMin float64     `json:"duration_min"`
	Method      RouteMethod `json:"method"`
}
