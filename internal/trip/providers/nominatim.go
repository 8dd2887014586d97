package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noxistepan/trip-planner/internal/geo"
	"github.com/noxistepan/trip-planner/internal/trip"
	"github.com/sony/gobreaker"
)

// NominatimGeocoder implements the trip.Geocoder interface against the
// Nominatim search API. Per the provider's usage policy every request
// carries a descriptive User-Agent identifying the application and a
// contact address.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

// NewNominatimGeocoder creates a geocoder talking to baseURL (the /search
// endpoint) and identifying itself with userAgent.
func NewNominatimGeocoder(client *http.Client, baseURL, userAgent string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newBreaker("nominatim"),
	}
}

// nominatimCandidate mirrors one entry of the Nominatim search response.
// Latitude and longitude arrive as numeric strings.
type nominatimCandidate struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve returns the top candidate for the query. Zero candidates, provider
// errors, timeouts, and malformed responses all collapse into
// trip.ErrPlaceNotFound; the underlying cause is logged here and discarded.
func (g *NominatimGeocoder) Resolve(ctx context.Context, query string) (*trip.PlaceResolution, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", query)
		values.Set("format", "json")
		values.Set("limit", "1")
		values.Set("addressdetails", "1")

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", g.userAgent)
		req.Header.Set("Accept-Language", "en")
		return req, nil
	}

	resp, err := doRequest(ctx, g.client, g.circuit, buildRequest)
	if err != nil {
		log.Printf("nominatim request failed for %q: %v", query, err)
		return nil, trip.ErrPlaceNotFound
	}
	defer resp.Body.Close()

	var candidates []nominatimCandidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		log.Printf("nominatim decode failed for %q: %v", query, err)
		return nil, trip.ErrPlaceNotFound
	}
	if len(candidates) == 0 {
		return nil, trip.ErrPlaceNotFound
	}

	top := candidates[0]

	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		log.Printf("nominatim returned unparseable latitude %q for %q", top.Lat, query)
		return nil, trip.ErrPlaceNotFound
	}
	lon, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		log.Printf("nominatim returned unparseable longitude %q for %q", top.Lon, query)
		return nil, trip.ErrPlaceNotFound
	}

	displayName := top.DisplayName
	if displayName == "" {
		displayName = query
	}

	return &trip.PlaceResolution{
		Query:       query,
		DisplayName: displayName,
		Coordinate:  geo.NewCoordinate(lat, lon),
	}, nil
}
