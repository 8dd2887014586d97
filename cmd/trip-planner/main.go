package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/noxistepan/trip-planner/internal/api/http"
	"github.com/noxistepan/trip-planner/internal/config"
	"github.com/noxistepan/trip-planner/internal/geocache"
	"github.com/noxistepan/trip-planner/internal/trip"
	"github.com/noxistepan/trip-planner/internal/trip/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// One outbound HTTP client per timeout budget. The place search runs a
	// heavier spatial query and gets the longer budget.
	geocodeClient := &http.Client{Timeout: cfg.GeocodeTimeout}
	weatherClient := &http.Client{Timeout: cfg.WeatherTimeout}
	placesClient := &http.Client{Timeout: cfg.PlacesTimeout}

	userAgent := cfg.UserAgent()

	geocoder := providers.NewNominatimGeocoder(geocodeClient, cfg.NominatimBaseURL, userAgent)
	weather := providers.NewOpenMeteoProvider(weatherClient, cfg.OpenMeteoBaseURL)
	places := providers.NewOverpassFinder(placesClient, cfg.OverpassBaseURL, userAgent)

	// Geocode cache with a periodic janitor sweeping expired entries.
	cache := geocache.New(cfg.CacheMaxEntries, cfg.CacheTTL)
	janitor := geocache.NewJanitor(cache, cfg.CacheSweepInterval)
	if err := janitor.Start(); err != nil {
		log.Fatalf("failed to start geocache janitor: %v", err)
	}
	defer janitor.Stop()

	// Core service orchestrating geocoding, weather, and place discovery.
	service := trip.NewService(
		geocache.NewResolver(geocoder, cache),
		weather,
		places,
		cfg.PlacesRadiusMeters,
		cfg.PlacesLimit,
	)

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "trip-planner",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          40 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "trip-planner",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
