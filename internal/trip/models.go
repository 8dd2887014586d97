package trip

import (
	"github.com/noxistepan/trip-planner/internal/geo"
)

// PlaceResolution is the outcome of geocoding a free-text place query.
// It is built fresh per request and never shared across requests.
type PlaceResolution struct {
	Query       string         `json:"query"`
	DisplayName string         `json:"displayName"`
	Coordinate  geo.Coordinate `json:"coordinate"`
}

// WeatherSnapshot holds current conditions for a coordinate.
// Pointer fields are nil when the provider did not report the value;
// a partially filled snapshot is still a successful lookup.
type WeatherSnapshot struct {
	TemperatureC *float64 `json:"temperatureC"`
	WindSpeed    *float64 `json:"windSpeed"`
	// ObservedAt is the provider-local ISO 8601 timestamp of the
	// current-conditions block, kept verbatim.
	ObservedAt string `json:"observedAt"`
	// PrecipProbabilityPct is the hourly precipitation probability aligned
	// to ObservedAt, 0-100.
	PrecipProbabilityPct *int `json:"precipProbabilityPercent"`
}

// PointOfInterest is a named feature near the resolved place.
// Names are unique within one result set.
type PointOfInterest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// Coordinate is nil when the provider returned the feature without a
	// usable position; DistanceKm is nil in that case too.
	Coordinate *geo.Coordinate `json:"coordinate"`
	DistanceKm *float64        `json:"distanceKm"`
}

// TripPlan is the aggregate answer for one place query.
// Weather is nil when the lookup failed or was not requested;
// PointsOfInterest is empty under the same conditions.
type TripPlan struct {
	Place            PlaceResolution   `json:"place"`
	Weather          *WeatherSnapshot  `json:"weather,omitempty"`
	PointsOfInterest []PointOfInterest `json:"pointsOfInterest"`
}
