package weather

import (
	"context"
	"fmt"
	"time"
)

// Location is the monitoring site a reading is taken for.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// Observation is a provider's raw answer, before sanity checks.
type Observation struct {
	ProviderName string
	ObservedAt   time.Time
	TemperatureC float64
	HumidityPct  float64
}

// Provider abstracts a weather data source (Open-Meteo, OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, loc Location) (Observation, error)
}
