package weather

import (
	"context"
)

// Source abstracts a weather backend (e.g. WeatherAPI, Open-Meteo).
// Fetch yields a single snapshot per call.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) (Snapshot, error)
}
