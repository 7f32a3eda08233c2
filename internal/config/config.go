package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-screen/internal/weather"
)

const (
	ProviderWeatherAPI  = "weatherapi"
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"

	LocationModePush  = "push"
	LocationModeFixed = "fixed"
)

type AppConfig struct {
	Provider          string `validate:"oneof=weatherapi openweather openmeteo"`
	WeatherAPIKey     string `validate:"required_if=Provider weatherapi"`
	OpenWeatherAPIKey string `validate:"required_if=Provider openweather"`
	GeocoderAPIKey    string `validate:"required_if=Provider openmeteo"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// FetchDelay is how long a location reading settles before it is fetched.
	FetchDelay       time.Duration `validate:"gte=5s"`
	SupersedePending bool

	LocationMode       string `validate:"oneof=push fixed"`
	LocationPermission bool
	FixedLocation      weather.Coordinate
	LocationInterval   time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file loaded")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("WEATHER_PROVIDER", ProviderWeatherAPI)
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("FETCH_DELAY", "5s")
	v.SetDefault("SUPERSEDE_PENDING", true)
	v.SetDefault("LOCATION_MODE", LocationModePush)
	v.SetDefault("LOCATION_PERMISSION", true)
	v.SetDefault("FIXED_LATITUDE", 0.0)
	v.SetDefault("FIXED_LONGITUDE", 0.0)
	v.SetDefault("LOCATION_INTERVAL", "1m")
	v.SetDefault("PORT", "8080")
	return v
}

// FromViper builds and validates an AppConfig from v.
func FromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Provider:           v.GetString("WEATHER_PROVIDER"),
		WeatherAPIKey:      v.GetString("WEATHERAPI_API_KEY"),
		OpenWeatherAPIKey:  v.GetString("OPENWEATHER_API_KEY"),
		GeocoderAPIKey:     v.GetString("GEOCODER_API_KEY"),
		HTTPTimeout:        v.GetDuration("HTTP_TIMEOUT"),
		FetchDelay:         v.GetDuration("FETCH_DELAY"),
		SupersedePending:   v.GetBool("SUPERSEDE_PENDING"),
		LocationMode:       v.GetString("LOCATION_MODE"),
		LocationPermission: v.GetBool("LOCATION_PERMISSION"),
		FixedLocation: weather.Coordinate{
			Latitude:  v.GetFloat64("FIXED_LATITUDE"),
			Longitude: v.GetFloat64("FIXED_LONGITUDE"),
		},
		LocationInterval: v.GetDuration("LOCATION_INTERVAL"),
		Port:             v.GetString("PORT"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.LocationMode == LocationModeFixed {
		if err := cfg.FixedLocation.Validate(); err != nil {
			return nil, fmt.Errorf("invalid FIXED_LATITUDE/FIXED_LONGITUDE: %w", err)
		}
	}
	return cfg, nil
}
