package geocache

import (
	"context"

	"github.com/noxistepan/trip-planner/internal/trip"
)

// Resolver wraps a trip.Geocoder with the cache. Hits skip the provider
// entirely; misses are forwarded and successful resolutions stored. Failures
// are never cached, so a transient provider outage does not pin NotFound.
type Resolver struct {
	inner trip.Geocoder
	cache *Cache
}

// NewResolver wraps inner with cache.
func NewResolver(inner trip.Geocoder, cache *Cache) *Resolver {
	return &Resolver{inner: inner, cache: cache}
}

// Resolve implements trip.Geocoder.
func (r *Resolver) Resolve(ctx context.Context, query string) (*trip.PlaceResolution, error) {
	if place, ok := r.cache.Get(query); ok {
		return &place, nil
	}

	place, err := r.inner.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	r.cache.Put(query, *place)
	return place, nil
}
