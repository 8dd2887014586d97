package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/noxistepan/trip-planner/internal/geo"
	"github.com/noxistepan/trip-planner/internal/trip"
	"github.com/sony/gobreaker"
)

// Open-Meteo hourly timestamps are timezone-naive local time, e.g.
// "2024-01-01T11:00".
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements the trip.WeatherProvider interface against
// the Open-Meteo forecast API.
type OpenMeteoProvider struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		baseURL: baseURL,
		client:  client,
		circuit: newBreaker("openmeteo"),
	}
}

// openMeteoResponse mirrors the slice of the forecast payload we use.
// CurrentWeather is a pointer so its absence is distinguishable from a
// zero-valued block.
type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   *float64 `json:"windspeed"`
		Time        string   `json:"time"`
	} `json:"current_weather"`
	Hourly struct {
		Time                     []string  `json:"time"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}

// Fetch returns current conditions plus the precipitation probability for
// the observation hour. It fails only when the request itself fails or the
// current-conditions block is missing; a missing probability merely leaves
// the field nil.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, coord geo.Coordinate) (*trip.WeatherSnapshot, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
		values.Set("current_weather", "true")
		values.Set("hourly", "precipitation_probability")
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if payload.CurrentWeather == nil {
		return nil, fmt.Errorf("openmeteo response missing current_weather block")
	}

	return &trip.WeatherSnapshot{
		TemperatureC:         payload.CurrentWeather.Temperature,
		WindSpeed:            payload.CurrentWeather.WindSpeed,
		ObservedAt:           payload.CurrentWeather.Time,
		PrecipProbabilityPct: alignPrecipProbability(payload.Hourly.Time, payload.Hourly.PrecipitationProbability, payload.CurrentWeather.Time),
	}, nil
}

// alignPrecipProbability picks the hourly probability matching the current
// observation time. An exact string match wins; otherwise every timestamp is
// parsed timezone-naive and the entry with the smallest absolute difference
// is chosen, first occurrence winning ties. Returns nil when either array is
// empty, lengths do not line up, or parsing fails.
func alignPrecipProbability(times []string, probs []float64, current string) *int {
	if len(times) == 0 || len(probs) == 0 {
		return nil
	}

	n := len(times)
	if len(probs) < n {
		n = len(probs)
	}

	for i := 0; i < n; i++ {
		if times[i] == current {
			return roundedPct(probs[i])
		}
	}

	currentTS, err := parseNaiveTime(current)
	if err != nil {
		return nil
	}

	bestIdx := -1
	var bestDiff time.Duration
	for i := 0; i < n; i++ {
		ts, err := parseNaiveTime(times[i])
		if err != nil {
			return nil
		}
		diff := currentTS.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if bestIdx == -1 || diff < bestDiff {
			bestIdx = i
			bestDiff = diff
		}
	}
	if bestIdx == -1 {
		return nil
	}
	return roundedPct(probs[bestIdx])
}

// parseNaiveTime parses an ISO timestamp without timezone information,
// tolerating an optional seconds component.
func parseNaiveTime(s string) (time.Time, error) {
	if ts, err := time.Parse(openMeteoTimeLayout, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func roundedPct(v float64) *int {
	pct := int(math.Round(v))
	return &pct
}
