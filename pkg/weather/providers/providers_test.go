package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/unowned-ai/fieldlog/pkg/weather"
)

var fortaleza = weather.Location{Name: "Fortaleza, CE", Latitude: -3.7319, Longitude: -38.5267}

func jsonServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenMeteo_Current(t *testing.T) {
	srv := jsonServer(t, http.StatusOK,
		`{"current":{"time":"2026-10-18T14:15","temperature_2m":28.0,"relative_humidity_2m":65}}`,
		func(r *http.Request) {
			if got := r.URL.Query().Get("current"); got != "temperature_2m,relative_humidity_2m" {
				t.Errorf("Unexpected current parameter %q", got)
			}
			if r.URL.Query().Get("latitude") == "" || r.URL.Query().Get("longitude") == "" {
				t.Errorf("Expected latitude and longitude in query, got %s", r.URL.RawQuery)
			}
		})

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	obs, err := p.Current(context.Background(), fortaleza)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if obs.TemperatureC != 28 || obs.HumidityPct != 65 {
		t.Errorf("Expected 28/65, got %v/%v", obs.TemperatureC, obs.HumidityPct)
	}
	want := time.Date(2026, 10, 18, 14, 15, 0, 0, time.UTC)
	if !obs.ObservedAt.Equal(want) {
		t.Errorf("Expected observed at %v, got %v", want, obs.ObservedAt)
	}
	if obs.ProviderName != OpenMeteo {
		t.Errorf("Expected provider %q, got %q", OpenMeteo, obs.ProviderName)
	}
}

func TestOpenMeteo_MissingField(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"current":{"time":"2026-10-18T14:15","temperature_2m":28.0}}`, nil)

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	_, err := p.Current(context.Background(), fortaleza)
	if !errors.Is(err, errMissingField) {
		t.Errorf("Expected errMissingField, got %v", err)
	}
}

func TestOpenMeteo_ZeroValuesAreNotMissing(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"current":{"temperature_2m":0,"relative_humidity_2m":0}}`, nil)

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	obs, err := p.Current(context.Background(), fortaleza)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if obs.TemperatureC != 0 || obs.HumidityPct != 0 {
		t.Errorf("Expected 0/0, got %v/%v", obs.TemperatureC, obs.HumidityPct)
	}
}

func TestOpenWeather_Current(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"dt":1760796900,"main":{"temp":30.5,"humidity":58}}`,
		func(r *http.Request) {
			if r.URL.Query().Get("appid") != "secret" {
				t.Errorf("Expected appid to be sent")
			}
			if r.URL.Query().Get("units") != "metric" {
				t.Errorf("Expected metric units")
			}
		})

	p := NewOpenWeatherProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	obs, err := p.Current(context.Background(), fortaleza)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if obs.TemperatureC != 30.5 || obs.HumidityPct != 58 {
		t.Errorf("Expected 30.5/58, got %v/%v", obs.TemperatureC, obs.HumidityPct)
	}
	if !obs.ObservedAt.Equal(time.Unix(1760796900, 0)) {
		t.Errorf("Unexpected observed time %v", obs.ObservedAt)
	}
}

func TestOpenWeather_NoKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "")
	if _, err := p.Current(context.Background(), fortaleza); err == nil {
		t.Errorf("Expected an error without an API key")
	}
}

func TestWeatherAPI_Current(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"current":{"last_updated_epoch":1760796900,"temp_c":27.1,"humidity":70}}`,
		func(r *http.Request) {
			if r.URL.Query().Get("key") != "k" {
				t.Errorf("Expected key to be sent")
			}
		})

	p := NewWeatherAPIProvider(srv.Client(), "k")
	p.baseURL = srv.URL

	obs, err := p.Current(context.Background(), fortaleza)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if obs.TemperatureC != 27.1 || obs.HumidityPct != 70 {
		t.Errorf("Expected 27.1/70, got %v/%v", obs.TemperatureC, obs.HumidityPct)
	}
}

func TestDoRequest_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: errRateLimited},
		{name: "server error", status: http.StatusBadGateway, wantErr: errServerError},
		{name: "not found", status: http.StatusNotFound, wantErr: errUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := jsonServer(t, tt.status, `{}`, func(*http.Request) { calls++ })

			p := NewOpenMeteoProvider(srv.Client())
			p.baseURL = srv.URL

			_, err := p.Current(context.Background(), fortaleza)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if calls != 1 {
				t.Errorf("Expected a single attempt, got %d", calls)
			}
		})
	}
}

func TestDoRequest_CircuitOpens(t *testing.T) {
	srv := jsonServer(t, http.StatusInternalServerError, `{}`, nil)

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	for i := 0; i < 5; i++ {
		if _, err := p.Current(context.Background(), fortaleza); !errors.Is(err, errServerError) {
			t.Fatalf("Attempt %d: expected errServerError, got %v", i, err)
		}
	}

	if _, err := p.Current(context.Background(), fortaleza); !errors.Is(err, errCircuitOpen) {
		t.Errorf("Expected errCircuitOpen after repeated failures, got %v", err)
	}
}

func TestDoRequest_NoClient(t *testing.T) {
	p := NewOpenMeteoProvider(nil)
	if _, err := p.Current(context.Background(), fortaleza); !errors.Is(err, errNoHTTPClient) {
		t.Errorf("Expected errNoHTTPClient, got %v", err)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", OpenMeteo, OpenWeather, WeatherAPI} {
		p, err := New(name, http.DefaultClient, Keys{})
		if err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
			continue
		}
		if name != "" && p.Name() != name {
			t.Errorf("New(%q) returned provider %q", name, p.Name())
		}
	}

	if _, err := New("accuweather", http.DefaultClient, Keys{}); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Expected ErrUnknownProvider, got %v", err)
	}
}

func TestReaderWithProvider_FallbackOnServerError(t *testing.T) {
	srv := jsonServer(t, http.StatusServiceUnavailable, `{}`, nil)

	p := NewOpenMeteoProvider(srv.Client())
	p.baseURL = srv.URL

	reading := weather.NewReader(p, fortaleza, time.Second).FetchCurrent(context.Background())
	if !reading.IsFallback() {
		t.Errorf("Expected fallback reading on 503, got %v", reading)
	}
}
