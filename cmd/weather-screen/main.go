package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/weather-screen/internal/api/http"
	"github.com/i474232898/weather-screen/internal/config"
	"github.com/i474232898/weather-screen/internal/location"
	"github.com/i474232898/weather-screen/internal/screen"
	"github.com/i474232898/weather-screen/internal/weather"
	"github.com/i474232898/weather-screen/internal/weather/providers"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "weather-screen").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	var source weather.Source
	switch cfg.Provider {
	case config.ProviderOpenWeather:
		source = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	case config.ProviderOpenMeteo:
		source = providers.NewOpenMeteoProvider(httpClient, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey))
	default:
		source = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	}

	// In push mode the device posts readings; in fixed mode a scheduler replays one.
	var (
		locations location.Provider
		pusher    httpapi.Pusher
	)
	if cfg.LocationMode == config.LocationModeFixed {
		locations = location.NewFixedProvider(cfg.FixedLocation, cfg.LocationInterval, cfg.LocationPermission, log)
	} else {
		push := location.NewPushProvider(cfg.LocationPermission, log)
		locations, pusher = push, push
	}

	sessions := screen.NewSession(screen.Config{
		Source:           source,
		Locations:        locations,
		Permission:       location.StaticPermission(cfg.LocationPermission),
		FetchDelay:       cfg.FetchDelay,
		SupersedePending: cfg.SupersedePending,
		Logger:           log,
	})
	defer sessions.Close()

	if _, err := sessions.Enter(); err != nil {
		log.Fatal().Err(err).Msg("failed to open screen")
	}

	app := httpapi.NewApp("weather-screen")

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-screen",
			"provider": source.Name(),
		})
	})

	httpapi.RegisterRoutes(app, sessions, pusher, source)

	go func() {
		log.Info().Str("port", cfg.Port).Str("provider", source.Name()).Str("location_mode", cfg.LocationMode).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
