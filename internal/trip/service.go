package trip

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// DefaultRadiusMeters and DefaultLimit are the orchestrator defaults for the
// place search when the configuration does not override them.
const (
	DefaultRadiusMeters = 20000
	DefaultLimit        = 5
)

// PlanOptions are the consumer-facing feature toggles for a plan request.
// A disabled branch is never invoked.
type PlanOptions struct {
	IncludeWeather bool
	IncludePlaces  bool
}

// Service orchestrates geocoding, weather lookup, and place discovery
// into a single TripPlan. Every request is stateless and isolated.
type Service struct {
	geocoder Geocoder
	weather  WeatherProvider
	places   PlaceFinder

	radiusMeters int
	limit        int
}

// NewService creates a Service with the given providers. radiusMeters and
// limit fall back to the defaults when non-positive.
func NewService(geocoder Geocoder, weather WeatherProvider, places PlaceFinder, radiusMeters, limit int) *Service {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		geocoder:     geocoder,
		weather:      weather,
		places:       places,
		radiusMeters: radiusMeters,
		limit:        limit,
	}
}

// Plan resolves the place query and, on success, fans out to the weather
// and place providers concurrently. Geocoding failure is the only failure
// surfaced to the caller; weather and place failures degrade the result
// to a nil snapshot / empty list.
func (s *Service) Plan(ctx context.Context, query string, opts PlanOptions) (*TripPlan, error) {
	place, err := s.geocoder.Resolve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", query, err)
	}

	plan := &TripPlan{
		Place:            *place,
		PointsOfInterest: []PointOfInterest{},
	}

	var wg sync.WaitGroup

	if opts.IncludeWeather {
		wg.Add(1)
		go func() {
			defer wg.Done()

			snapshot, err := s.weather.Fetch(ctx, place.Coordinate)
			if err != nil {
				// Log and continue; weather is a soft dependency.
				log.Printf("weather lookup failed for %q: %v", query, err)
				return
			}
			plan.Weather = snapshot
		}()
	}

	if opts.IncludePlaces {
		wg.Add(1)
		go func() {
			defer wg.Done()

			pois, err := s.places.FindNearby(ctx, place.Coordinate, s.radiusMeters, s.limit)
			if err != nil {
				log.Printf("place search failed for %q: %v", query, err)
				return
			}
			if pois != nil {
				plan.PointsOfInterest = pois
			}
		}()
	}

	wg.Wait()

	return plan, nil
}
