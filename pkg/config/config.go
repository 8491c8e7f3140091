// Package config loads runtime settings from a .env file and the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/unowned-ai/fieldlog/pkg/weather"
)

const (
	DefaultLocationName = "Fortaleza, CE"
	DefaultLatitude     = -3.7319
	DefaultLongitude    = -38.5267
)

type AppConfig struct {
	// DB is a SQLite path or a postgres:// URL. Empty means the per-OS default path.
	DB     string
	UserID string

	WeatherProvider   string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	Location          weather.Location

	// WeatherTimeout bounds one environmental read.
	WeatherTimeout time.Duration
	// HTTPTimeout is the client timeout for provider requests.
	HTTPTimeout time.Duration

	Port               string
	CheckpointInterval time.Duration

	Debug bool
}

// Load reads configuration from .env (if present) and the environment with defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: failed to load .env: %v", err)
	}

	cfg := &AppConfig{
		DB:                os.Getenv("FIELDLOG_DB"),
		UserID:            getenvDefault("FIELDLOG_USER_ID", os.Getenv("USER")),
		WeatherProvider:   getenvDefault("WEATHER_PROVIDER", "open-meteo"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherAPIKey:     os.Getenv("WEATHERAPI_API_KEY"),
		Port:              getenvDefault("PORT", "8080"),
		Debug:             os.Getenv("FIELDLOG_DEBUG") != "",
	}

	lat, err := getenvFloat("WEATHER_LOCATION_LAT", DefaultLatitude)
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("WEATHER_LOCATION_LON", DefaultLongitude)
	if err != nil {
		return nil, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid WEATHER_LOCATION_LAT/LON: %v,%v", lat, lon)
	}
	cfg.Location = weather.Location{
		Name:      getenvDefault("WEATHER_LOCATION_NAME", DefaultLocationName),
		Latitude:  lat,
		Longitude: lon,
	}

	if cfg.WeatherTimeout, err = getenvDuration("WEATHER_TIMEOUT", weather.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CheckpointInterval, err = getenvDuration("CHECKPOINT_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
