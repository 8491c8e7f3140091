package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/unowned-ai/fieldlog/pkg/weather"
)

var (
	errRateLimited     = errors.New("rate limited")
	errServerError     = errors.New("server error")
	errUnexpected      = errors.New("unexpected status code")
	errCircuitOpen     = errors.New("circuit breaker open")
	errNoHTTPClient    = errors.New("http client not configured")
	errMissingField    = errors.New("response is missing a field")
	ErrUnknownProvider = errors.New("unknown weather provider")
)

const (
	OpenMeteo   = "open-meteo"
	OpenWeather = "openweather"
	WeatherAPI  = "weatherapi"
)

// Keys carries the API keys of the providers that need one.
type Keys struct {
	OpenWeather string
	WeatherAPI  string
}

// New builds the provider registered under name.
func New(name string, client *http.Client, keys Keys) (weather.Provider, error) {
	switch name {
	case "", OpenMeteo:
		return NewOpenMeteoProvider(client), nil
	case OpenWeather:
		return NewOpenWeatherProvider(client, keys.OpenWeather), nil
	case WeatherAPI:
		return NewWeatherAPIProvider(client, keys.WeatherAPI), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// doRequest executes exactly one HTTP attempt through the circuit breaker.
// The caller owns the returned response body.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			return nil, errRateLimited
		case resp.StatusCode >= 500:
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

func required(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s", errMissingField, field)
	}
	return *v, nil
}
