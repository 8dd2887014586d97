package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/noxistepan/trip-planner/internal/geo"
)

// ErrPlaceNotFound is returned when the geocoding provider yields no
// candidate for a query. Provider timeouts and errors collapse into the
// same signal: the caller cannot tell "no such place" from "provider down".
var ErrPlaceNotFound = errors.New("place not found")

// NotFoundMessage renders the user-facing failure text for an unresolved query.
func NotFoundMessage(query string) string {
	return fmt.Sprintf("I don't know this place exists: '%s'. Please check spelling or try a different place.", query)
}

// Geocoder resolves a free-text place query into a coordinate and a
// canonical display name. This is the hard dependency of a plan: its
// failure aborts the whole operation.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*PlaceResolution, error)
}

// WeatherProvider fetches current conditions for a coordinate.
// Soft dependency: an error omits weather from the plan, nothing more.
type WeatherProvider interface {
	Fetch(ctx context.Context, coord geo.Coordinate) (*WeatherSnapshot, error)
}

// PlaceFinder discovers named features within radiusMeters of a coordinate,
// ranked by distance and capped at limit. Soft dependency: an error yields
// an empty list.
type PlaceFinder interface {
	FindNearby(ctx context.Context, coord geo.Coordinate, radiusMeters, limit int) ([]PointOfInterest, error)
}
