package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 10 * time.Second

var errNoProvider = errors.New("no weather provider configured")

// Reader fetches the current reading for one fixed location.
type Reader struct {
	provider Provider
	location Location
	timeout  time.Duration
}

// NewReader returns a Reader; a non-positive timeout falls back to DefaultTimeout.
func NewReader(provider Provider, location Location, timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reader{provider: provider, location: location, timeout: timeout}
}

func (r *Reader) Location() Location { return r.location }

// FetchCurrent performs exactly one provider call. It never returns an error:
// every failure, including a provider panic, becomes Unavailable.
func (r *Reader) FetchCurrent(ctx context.Context) Reading {
	if r == nil || r.provider == nil {
		log.Printf("weather: %v", errNoProvider)
		return Unavailable(errNoProvider.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	obs, err := r.call(ctx)
	if err != nil {
		log.Printf("weather: provider %s failed for %s: %v", r.provider.Name(), r.location, err)
		return Unavailable(err.Error())
	}

	if err := checkObservation(obs); err != nil {
		log.Printf("weather: provider %s returned unusable data for %s: %v", r.provider.Name(), r.location, err)
		return Unavailable(err.Error())
	}

	if obs.ProviderName == "" {
		obs.ProviderName = r.provider.Name()
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now().UTC()
	}

	log.Printf("weather: %s reports %.1f°C / %.0f%% for %s", obs.ProviderName, obs.TemperatureC, obs.HumidityPct, r.location)
	return Available(obs.TemperatureC, obs.HumidityPct, obs.ProviderName, obs.ObservedAt)
}

func (r *Reader) call(ctx context.Context) (obs Observation, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("provider panicked: %v", p)
		}
	}()
	return r.provider.Current(ctx, r.location)
}

func checkObservation(obs Observation) error {
	if math.IsNaN(obs.TemperatureC) || math.IsInf(obs.TemperatureC, 0) {
		return fmt.Errorf("temperature is not a finite number")
	}
	if math.IsNaN(obs.HumidityPct) || math.IsInf(obs.HumidityPct, 0) {
		return fmt.Errorf("humidity is not a finite number")
	}
	if obs.HumidityPct < 0 || obs.HumidityPct > 100 {
		return fmt.Errorf("humidity %.1f outside 0..100", obs.HumidityPct)
	}
	return nil
}
