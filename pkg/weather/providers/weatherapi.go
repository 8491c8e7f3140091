package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/unowned-ai/fieldlog/pkg/weather"
)

// WeatherAPIProvider reads current conditions from WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    WeatherAPI,
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		client:  client,
		circuit: newBreaker(WeatherAPI),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Current(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", fmt.Sprintf("%f,%f", loc.Latitude, loc.Longitude))
		values.Set("aqi", "no")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			LastUpdatedEpoch int64    `json:"last_updated_epoch"`
			TempC            *float64 `json:"temp_c"`
			Humidity         *float64 `json:"humidity"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, err
	}

	temp, err := required("current.temp_c", payload.Current.TempC)
	if err != nil {
		return weather.Observation{}, err
	}
	hum, err := required("current.humidity", payload.Current.Humidity)
	if err != nil {
		return weather.Observation{}, err
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	return weather.Observation{
		ProviderName: p.name,
		ObservedAt:   ts,
		TemperatureC: temp,
		HumidityPct:  hum,
	}, nil
}
