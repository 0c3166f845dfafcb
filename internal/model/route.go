package model

// RoutePoint is a named coordinate sent to the route optimizer.
type RoutePoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RouteSegment is one leg of an optimized route as returned by the optimizer.
// From and To carry the point names from the request.
type RouteSegment struct {
	From                 string  `json:"from"`
	To                   string  `json:"to"`
	DistanceKm           float64 `json:"distance_km"`
	EstimatedTimeMinutes float64 `json:"estimated_time_minutes"`
}

// RoutePlan is the optimizer's answer: the visiting order implied by the
// segment list plus aggregate distance and duration.
type RoutePlan struct {
	Segments              []RouteSegment `json:"segments"`
	TotalDistanceKm       float64        `json:"total_distance_km"`
	EstimatedTotalMinutes float64        `json:"estimated_total_minutes"`
}
