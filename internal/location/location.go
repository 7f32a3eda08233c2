// Package location supplies positioning readings to the weather screen.
package location

import (
	"context"
	"errors"

	"github.com/i474232898/weather-screen/internal/weather"
)

// ErrPermissionDenied is returned when the positioning service refuses to register a listener.
var ErrPermissionDenied = errors.New("location permission denied")

// Callback receives each reading. It may be invoked from any goroutine.
type Callback func(weather.Coordinate)

// Provider yields a stream of readings. RequestUpdates registers cb and returns
// without blocking; cb is invoked zero or more times until ctx is done.
type Provider interface {
	RequestUpdates(ctx context.Context, cb Callback) error
}

// PermissionChecker reports whether the location permission is currently granted.
type PermissionChecker interface {
	Granted() bool
}

// StaticPermission is a PermissionChecker with a fixed answer.
type StaticPermission bool

func (p StaticPermission) Granted() bool {
	return bool(p)
}
