package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-screen/internal/weather"
)

// OpenMeteoProvider implements weather.Source for Open-Meteo. Open-Meteo only
// speaks coordinates, so place names go through a Geocoder in both directions.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
	geocoder Geocoder
}

func NewOpenMeteoProvider(client *http.Client, geocoder Geocoder) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		client:   client,
		circuit:  newCircuitBreaker("openmeteo"),
		geocoder: geocoder,
	}
}

// WithBaseURL points the provider at another endpoint (used by tests).
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, q weather.Query) (weather.Snapshot, error) {
	if q == "" || q.IsCurrentLocation() {
		return weather.Snapshot{}, fmt.Errorf("%w: openmeteo cannot resolve %q", weather.ErrUnsupportedQuery, q)
	}
	if p.geocoder == nil {
		return weather.Snapshot{}, fmt.Errorf("openmeteo requires a geocoder")
	}

	coord, ok := q.Coordinate()
	name := ""
	if !ok {
		c, err := p.geocoder.Locate(ctx, string(q))
		if err != nil {
			return weather.Snapshot{}, fmt.Errorf("openmeteo: geocode %q: %w", q, err)
		}
		coord, name = c, string(q)
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", coord.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", coord.Longitude))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("openmeteo: decode response: %w", err)
	}

	// Open-Meteo reports local ISO8601 without seconds, e.g. 2024-05-01T12:00.
	ts, err := time.Parse("2006-01-02T15:04", payload.CurrentWeather.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	// Prefer the canonical place name; city queries fall back to the input,
	// coordinates to no name, which the screen treats as still loading.
	if canonical, err := p.geocoder.PlaceName(ctx, coord); err == nil && canonical != "" {
		name = canonical
	}

	return weather.Snapshot{
		LocationName: name,
		TemperatureC: payload.CurrentWeather.Temperature,
		FetchedAt:    ts,
		Provider:     p.name,
	}, nil
}
