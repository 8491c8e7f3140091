package weather

import (
	"fmt"
	"time"
)

// Reading is the outcome of one environmental read: either an available
// temperature/humidity pair or an unavailable marker carrying the reason.
type Reading struct {
	available    bool
	temperatureC float64
	humidityPct  float64
	provider     string
	observedAt   time.Time
	reason       string
}

// Available builds a reading from validated values.
func Available(temperatureC, humidityPct float64, provider string, observedAt time.Time) Reading {
	return Reading{
		available:    true,
		temperatureC: temperatureC,
		humidityPct:  humidityPct,
		provider:     provider,
		observedAt:   observedAt,
	}
}

// Unavailable builds the fallback reading.
func Unavailable(reason string) Reading {
	return Reading{reason: reason}
}

// IsFallback reports whether no real data could be obtained.
func (r Reading) IsFallback() bool { return !r.available }

// Values returns temperature and humidity; ok is false for the fallback.
func (r Reading) Values() (temperatureC, humidityPct float64, ok bool) {
	return r.temperatureC, r.humidityPct, r.available
}

// Pointers returns the values as nullable columns: both nil for the fallback.
func (r Reading) Pointers() (temperatureC, humidityPct *float64) {
	if !r.available {
		return nil, nil
	}
	t, h := r.temperatureC, r.humidityPct
	return &t, &h
}

func (r Reading) Provider() string      { return r.provider }
func (r Reading) ObservedAt() time.Time { return r.observedAt }
func (r Reading) Reason() string        { return r.reason }

func (r Reading) String() string {
	if !r.available {
		if r.reason == "" {
			return "unavailable"
		}
		return "unavailable: " + r.reason
	}
	return fmt.Sprintf("%.1f°C, %.0f%%", r.temperatureC, r.humidityPct)
}
