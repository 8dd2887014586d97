package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default provider endpoints. Each can be overridden through the
// environment so components are testable against substitute servers.
const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"
	defaultOverpassURL  = "https://overpass-api.de/api/interpreter"
)

type AppConfig struct {
	Port string

	// Provider endpoints.
	NominatimBaseURL string
	OpenMeteoBaseURL string
	OverpassBaseURL  string

	// ContactEmail identifies this deployment to Nominatim per its usage
	// policy; it is embedded in the outbound User-Agent.
	ContactEmail string

	// Per-provider timeout budgets. The place search runs a heavier query
	// and gets a longer budget.
	GeocodeTimeout time.Duration
	WeatherTimeout time.Duration
	PlacesTimeout  time.Duration

	// Place search parameters.
	PlacesRadiusMeters int
	PlacesLimit        int

	// Geocode cache retention.
	CacheMaxEntries    int           // max cached queries (0 = unlimited)
	CacheTTL           time.Duration // max age of cached resolutions (0 = unlimited)
	CacheSweepInterval time.Duration // janitor sweep interval (0 = disabled)
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.NominatimBaseURL = getenvDefault("NOMINATIM_BASE_URL", defaultNominatimURL)
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", defaultOpenMeteoURL)
	cfg.OverpassBaseURL = getenvDefault("OVERPASS_BASE_URL", defaultOverpassURL)

	cfg.ContactEmail = getenvDefault("CONTACT_EMAIL", "noxistepan2023@gmail.com")

	var err error
	if cfg.GeocodeTimeout, err = getenvDuration("GEOCODE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WeatherTimeout, err = getenvDuration("WEATHER_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.PlacesTimeout, err = getenvDuration("PLACES_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	cfg.PlacesRadiusMeters = getenvInt("PLACES_RADIUS_METERS", 20000)
	cfg.PlacesLimit = getenvInt("PLACES_LIMIT", 5)
	if cfg.PlacesRadiusMeters <= 0 {
		return nil, fmt.Errorf("PLACES_RADIUS_METERS must be positive")
	}
	if cfg.PlacesLimit <= 0 {
		return nil, fmt.Errorf("PLACES_LIMIT must be positive")
	}

	cfg.CacheMaxEntries = getenvInt("GEOCODE_CACHE_MAX", 256)
	if cfg.CacheTTL, err = getenvDuration("GEOCODE_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.CacheSweepInterval, err = getenvDuration("GEOCODE_CACHE_SWEEP", "10m"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UserAgent returns the descriptive client identification header value sent
// to providers that require one.
func (c *AppConfig) UserAgent() string {
	return fmt.Sprintf("TripPlanner/1.0 (%s)", c.ContactEmail)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
