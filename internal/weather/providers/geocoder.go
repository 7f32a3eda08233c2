package providers

import (
	"context"
	"errors"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-screen/internal/weather"
)

var errNoAddress = errors.New("no address found for coordinate")

// Geocoder translates between place names and coordinates.
type Geocoder interface {
	Locate(ctx context.Context, place string) (weather.Coordinate, error)
	PlaceName(ctx context.Context, c weather.Coordinate) (string, error)
}

// GoogleGeocoder resolves places through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder sets the API key used by kelvins/geocoder. The key is
// package-global, so the last call wins for every GoogleGeocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Locate(ctx context.Context, place string) (weather.Coordinate, error) {
	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{City: place})
		ch <- result{loc, err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinate{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return weather.Coordinate{}, r.err
		}
		return weather.Coordinate{Latitude: r.loc.Latitude, Longitude: r.loc.Longitude}, nil
	}
}

func (g *GoogleGeocoder) PlaceName(ctx context.Context, c weather.Coordinate) (string, error) {
	type result struct {
		addrs []geocoder.Address
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		addrs, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: c.Latitude, Longitude: c.Longitude})
		ch <- result{addrs, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", r.err
		}
		for _, a := range r.addrs {
			if a.City != "" {
				return a.City, nil
			}
		}
		return "", errNoAddress
	}
}
