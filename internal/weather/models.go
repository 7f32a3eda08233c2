package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidCoordinate is returned when a latitude or longitude is out of range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnsupportedQuery is returned by sources that cannot serve a query kind.
	ErrUnsupportedQuery = errors.New("unsupported weather query")
)

// Coordinate is a single positioning reading.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate lies on the globe.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Snapshot is one location's current conditions at fetch time.
// Snapshots are replaced wholesale, never edited.
type Snapshot struct {
	LocationName string    `json:"locationName"`
	TemperatureC float64   `json:"temperatureC"`
	FetchedAt    time.Time `json:"fetchedAt"` // always UTC
	Provider     string    `json:"provider,omitempty"`
}

// Query identifies what to fetch: "lat,lon", the current-location token or a city name.
type Query string

// CurrentLocation asks the source to resolve the caller's location itself.
const CurrentLocation Query = "current_location"

// CoordinateQuery encodes a coordinate as a query token.
func CoordinateQuery(c Coordinate) Query {
	return Query(strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64))
}

// CityQuery builds a query for a named place.
func CityQuery(name string) Query {
	return Query(strings.TrimSpace(name))
}

// Coordinate returns the coordinate encoded in q, if any.
func (q Query) Coordinate() (Coordinate, bool) {
	lat, lon, ok := strings.Cut(string(q), ",")
	if !ok {
		return Coordinate{}, false
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinate{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Coordinate{}, false
	}
	c := Coordinate{Latitude: la, Longitude: lo}
	if c.Validate() != nil {
		return Coordinate{}, false
	}
	return c, true
}

// IsCurrentLocation reports whether q is the current-location token.
func (q Query) IsCurrentLocation() bool {
	return q == CurrentLocation
}
