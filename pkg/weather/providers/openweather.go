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

// OpenWeatherProvider reads current conditions from OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    OpenWeather,
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		circuit: newBreaker(OpenWeather),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Current(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lat", fmt.Sprintf("%f", loc.Latitude))
		values.Set("lon", fmt.Sprintf("%f", loc.Longitude))

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     *float64 `json:"temp"`
			Humidity *float64 `json:"humidity"`
		} `json:"main"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, err
	}

	temp, err := required("main.temp", payload.Main.Temp)
	if err != nil {
		return weather.Observation{}, err
	}
	hum, err := required("main.humidity", payload.Main.Humidity)
	if err != nil {
		return weather.Observation{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.Observation{
		ProviderName: p.name,
		ObservedAt:   ts,
		TemperatureC: temp,
		HumidityPct:  hum,
	}, nil
}
