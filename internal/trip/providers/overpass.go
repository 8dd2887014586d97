package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/noxistepan/trip-planner/internal/geo"
	"github.com/noxistepan/trip-planner/internal/trip"
	"github.com/sony/gobreaker"
)

// maxOverpassResults caps how many elements the Overpass query asks for
// before local ranking and truncation.
const maxOverpassResults = 50

// categoryTags is the priority order for deriving a point of interest's
// category from its tags. Features matching none are categorized "other".
var categoryTags = []string{"tourism", "historic", "leisure", "amenity"}

// OverpassFinder implements the trip.PlaceFinder interface against the
// Overpass API. The query matches tourist-relevant nodes and ways around a
// coordinate; ways carry a computed center standing in for their position.
type OverpassFinder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
}

func NewOverpassFinder(client *http.Client, baseURL, userAgent string) *OverpassFinder {
	return &OverpassFinder{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    client,
		circuit:   newBreaker("overpass"),
	}
}

// overpassElement mirrors one element of the Overpass response. Nodes carry
// lat/lon directly; ways carry a center sub-object when one was computable.
type overpassElement struct {
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FindNearby queries Overpass for tourism, historic, and leisure=park
// features within radiusMeters of coord, then ranks and truncates them
// locally: unnamed features are dropped, names are deduplicated (first
// occurrence wins), entries with a computable distance come first sorted
// ascending, the rest follow in provider order, and the result is capped
// at limit.
func (f *OverpassFinder) FindNearby(ctx context.Context, coord geo.Coordinate, radiusMeters, limit int) ([]trip.PointOfInterest, error) {
	if radiusMeters <= 0 || limit <= 0 {
		return nil, fmt.Errorf("radius and limit must be positive")
	}

	query := buildOverpassQuery(coord, radiusMeters)

	buildRequest := func() (*http.Request, error) {
		form := url.Values{}
		form.Set("data", query)

		req, err := http.NewRequest(http.MethodPost, f.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", f.userAgent)
		return req, nil
	}

	resp, err := doRequest(ctx, f.client, f.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return rankElements(coord, payload.Elements, limit), nil
}

// buildOverpassQuery composes the Overpass QL payload for nodes and ways
// tagged tourism, historic, or leisure=park around the coordinate.
func buildOverpassQuery(coord geo.Coordinate, radiusMeters int) string {
	around := fmt.Sprintf("around:%d,%f,%f", radiusMeters, coord.Latitude, coord.Longitude)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, filter := range []string{"[tourism]", "[historic]", "[leisure=park]"} {
		fmt.Fprintf(&b, "  node(%s)%s;\n", around, filter)
		fmt.Fprintf(&b, "  way(%s)%s;\n", around, filter)
	}
	fmt.Fprintf(&b, ");\nout center %d;\n", maxOverpassResults)
	return b.String()
}

// rankElements applies the local post-processing pipeline to the raw
// provider elements.
func rankElements(origin geo.Coordinate, elements []overpassElement, limit int) []trip.PointOfInterest {
	pois := make([]trip.PointOfInterest, 0, len(elements))
	seen := make(map[string]struct{})

	for _, el := range elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		// First occurrence wins; later duplicates are dropped even when
		// they carry better data.
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var lat, lon *float64
		if el.Type == "node" {
			lat, lon = el.Lat, el.Lon
		} else {
			// Way or relation: the computed center stands in for the
			// feature's position, and is required.
			if el.Center == nil || el.Center.Lat == nil || el.Center.Lon == nil {
				continue
			}
			lat, lon = el.Center.Lat, el.Center.Lon
		}

		poi := trip.PointOfInterest{
			Name:     name,
			Category: categorize(el.Tags),
		}
		if lat != nil && lon != nil {
			c := geo.NewCoordinate(*lat, *lon)
			d := geo.DistanceKm(origin, c)
			poi.Coordinate = &c
			poi.DistanceKm = &d
		}

		pois = append(pois, poi)
	}

	// Stable partition: distance-sorted entries first, distance-less
	// entries after in provider order.
	sort.SliceStable(pois, func(i, j int) bool {
		di, dj := pois[i].DistanceKm, pois[j].DistanceKm
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	if len(pois) > limit {
		pois = pois[:limit]
	}
	return pois
}

// categorize derives the category string from the first matching tag in
// priority order, e.g. "tourism=museum".
func categorize(tags map[string]string) string {
	for _, key := range categoryTags {
		if val := tags[key]; val != "" {
			return fmt.Sprintf("%s=%s", key, val)
		}
	}
	return "other"
}
