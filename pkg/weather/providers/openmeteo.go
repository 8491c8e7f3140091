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

const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider reads current conditions from Open-Meteo. It needs no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    OpenMeteo,
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newBreaker(OpenMeteo),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Current(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("current", "temperature_2m,relative_humidity_2m")
		values.Set("timezone", "UTC")

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time               string   `json:"time"`
			Temperature2m      *float64 `json:"temperature_2m"`
			RelativeHumidity2m *float64 `json:"relative_humidity_2m"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, err
	}

	temp, err := required("current.temperature_2m", payload.Current.Temperature2m)
	if err != nil {
		return weather.Observation{}, err
	}
	hum, err := required("current.relative_humidity_2m", payload.Current.RelativeHumidity2m)
	if err != nil {
		return weather.Observation{}, err
	}

	ts, err := time.Parse(openMeteoTimeLayout, payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	return weather.Observation{
		ProviderName: p.name,
		ObservedAt:   ts.UTC(),
		TemperatureC: temp,
		HumidityPct:  hum,
	}, nil
}
