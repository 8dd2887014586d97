package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/noxistepan/trip-planner/internal/geo"
)

func newTestFinder(u string) *OverpassFinder {
	return NewOverpassFinder(&http.Client{Timeout: time.Second}, u, testUserAgent)
}

func floatPtr(v float64) *float64 {
	return &v
}

func node(name string, lat, lon float64, tags map[string]string) overpassElement {
	if tags == nil {
		tags = map[string]string{}
	}
	tags["name"] = name
	return overpassElement{Type: "node", Lat: floatPtr(lat), Lon: floatPtr(lon), Tags: tags}
}

func way(name string, center *struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}, tags map[string]string) overpassElement {
	if tags == nil {
		tags = map[string]string{}
	}
	tags["name"] = name
	return overpassElement{Type: "way", Center: center, Tags: tags}
}

func wayCenter(lat, lon float64) *struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
} {
	return &struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}{Lat: floatPtr(lat), Lon: floatPtr(lon)}
}

func TestRankElementsDropsUnnamedFeatures(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	elements := []overpassElement{
		{Type: "node", Lat: floatPtr(0.1), Lon: floatPtr(0.1), Tags: map[string]string{"tourism": "museum"}},
		node("Named", 0.2, 0.2, map[string]string{"tourism": "museum"}),
	}

	got := rankElements(origin, elements, 10)
	if len(got) != 1 || got[0].Name != "Named" {
		t.Errorf("got %+v, want only the named feature", got)
	}
}

func TestRankElementsDeduplicatesByNameFirstWins(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	elements := []overpassElement{
		node("Castle", 1.0, 1.0, map[string]string{"historic": "castle"}),
		// Closer duplicate with richer tags still loses.
		node("Castle", 0.01, 0.01, map[string]string{"tourism": "attraction"}),
	}

	got := rankElements(origin, elements, 10)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Category != "historic=castle" {
		t.Errorf("Category = %q, want the first occurrence's category", got[0].Category)
	}
}

func TestRankElementsWayWithoutCenterIsDiscarded(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	elements := []overpassElement{
		way("Park", nil, map[string]string{"leisure": "park"}),
		// The discarded way already consumed the name; this later
		// duplicate is dropped too.
		node("Park", 0.1, 0.1, map[string]string{"leisure": "park"}),
		node("Garden", 0.2, 0.2, map[string]string{"leisure": "garden"}),
	}

	got := rankElements(origin, elements, 10)
	if len(got) != 1 || got[0].Name != "Garden" {
		t.Errorf("got %+v, want only Garden", got)
	}
}

func TestRankElementsWayUsesCenter(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	elements := []overpassElement{
		way("Fort", wayCenter(0.5, 0.5), map[string]string{"historic": "fort"}),
	}

	got := rankElements(origin, elements, 10)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Coordinate == nil || got[0].Coordinate.Latitude != 0.5 {
		t.Errorf("Coordinate = %+v, want the way center", got[0].Coordinate)
	}
	if got[0].DistanceKm == nil || *got[0].DistanceKm <= 0 {
		t.Errorf("DistanceKm = %v, want > 0", got[0].DistanceKm)
	}
}

func TestRankElementsCategoryPriority(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{
			name: "tourism beats historic",
			tags: map[string]string{"historic": "castle", "tourism": "attraction"},
			want: "tourism=attraction",
		},
		{
			name: "historic beats leisure",
			tags: map[string]string{"leisure": "park", "historic": "ruins"},
			want: "historic=ruins",
		},
		{
			name: "leisure beats amenity",
			tags: map[string]string{"amenity": "fountain", "leisure": "park"},
			want: "leisure=park",
		},
		{
			name: "amenity alone",
			tags: map[string]string{"amenity": "place_of_worship"},
			want: "amenity=place_of_worship",
		},
		{
			name: "no matching tag",
			tags: map[string]string{"building": "yes"},
			want: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorize(tt.tags); got != tt.want {
				t.Errorf("categorize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRankElementsSortsByDistanceWithDistancelessSuffix(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	elements := []overpassElement{
		node("Far", 2.0, 2.0, map[string]string{"tourism": "attraction"}),
		// Nodes the provider returned without a position keep provider order
		// at the tail.
		{Type: "node", Tags: map[string]string{"name": "NoPos1", "tourism": "viewpoint"}},
		node("Near", 0.1, 0.1, map[string]string{"tourism": "museum"}),
		{Type: "node", Tags: map[string]string{"name": "NoPos2", "tourism": "viewpoint"}},
		node("Mid", 1.0, 1.0, map[string]string{"tourism": "zoo"}),
	}

	got := rankElements(origin, elements, 10)

	wantOrder := []string{"Near", "Mid", "Far", "NoPos1", "NoPos2"}
	if len(got) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, got[i].Name, name)
		}
	}
	if got[3].DistanceKm != nil || got[4].DistanceKm != nil {
		t.Error("distance-less entries must keep a nil DistanceKm")
	}
}

func TestRankElementsTruncatesToLimit(t *testing.T) {
	origin := geo.NewCoordinate(0, 0)
	elements := []overpassElement{
		node("A", 0.5, 0.5, nil),
		node("B", 0.1, 0.1, nil),
		node("C", 0.3, 0.3, nil),
	}

	got := rankElements(origin, elements, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "B" || got[1].Name != "C" {
		t.Errorf("got %q, %q; want the two closest", got[0].Name, got[1].Name)
	}
}

func TestOverpassFindNearby(t *testing.T) {
	var gotQuery string
	var gotUserAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		gotQuery = form.Get("data")

		_, _ = w.Write([]byte(`{
			"elements": [
				{"type": "node", "lat": 12.98, "lon": 77.60, "tags": {"name": "Cubbon Park", "leisure": "park"}},
				{"type": "way", "center": {"lat": 12.99, "lon": 77.59}, "tags": {"name": "Bangalore Palace", "historic": "palace", "tourism": "attraction"}},
				{"type": "node", "lat": 12.97, "lon": 77.58, "tags": {"highway": "bus_stop"}}
			]
		}`))
	}))
	defer srv.Close()

	origin := geo.NewCoordinate(12.97, 77.59)
	got, err := newTestFinder(srv.URL).FindNearby(context.Background(), origin, 20000, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUserAgent != testUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUserAgent, testUserAgent)
	}
	for _, fragment := range []string{"around:20000,12.97", "[tourism]", "[historic]", "[leisure=park]", "out center 50"} {
		if !strings.Contains(gotQuery, fragment) {
			t.Errorf("query missing %q:\n%s", fragment, gotQuery)
		}
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (unnamed element dropped)", len(got))
	}
	if got[0].Name != "Cubbon Park" {
		t.Errorf("first = %q, want the closest feature", got[0].Name)
	}
	if got[1].Category != "tourism=attraction" {
		t.Errorf("Category = %q, want tourism to win the priority order", got[1].Category)
	}
}

func TestOverpassFindNearbyRejectsInvalidArguments(t *testing.T) {
	finder := newTestFinder("http://127.0.0.1:0")

	if _, err := finder.FindNearby(context.Background(), geo.Coordinate{}, 0, 5); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := finder.FindNearby(context.Background(), geo.Coordinate{}, 1000, 0); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestOverpassFindNearbyProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	if _, err := newTestFinder(srv.URL).FindNearby(context.Background(), geo.Coordinate{}, 1000, 5); err == nil {
		t.Error("expected error, got nil")
	}
}
