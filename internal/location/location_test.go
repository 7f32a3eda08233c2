package location

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-screen/internal/weather"
)

type recorder struct {
	mu    sync.Mutex
	coord []weather.Coordinate
}

func (r *recorder) add(c weather.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coord = append(r.coord, c)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.coord)
}

func TestPushProvider(t *testing.T) {
	p := NewPushProvider(true, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	var rec recorder
	require.NoError(t, p.RequestUpdates(ctx, rec.add))
	assert.Equal(t, 1, p.Listeners())

	n, err := p.Push(weather.Coordinate{Latitude: 48.85, Longitude: 2.35})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, rec.len())

	_, err = p.Push(weather.Coordinate{Latitude: 120})
	assert.ErrorIs(t, err, weather.ErrInvalidCoordinate)
	assert.Equal(t, 1, rec.len())

	cancel()
	assert.Eventually(t, func() bool { return p.Listeners() == 0 }, time.Second, 5*time.Millisecond)

	n, err = p.Push(weather.Coordinate{Latitude: 1, Longitude: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPushProvider_PermissionDenied(t *testing.T) {
	p := NewPushProvider(false, zerolog.Nop())
	err := p.RequestUpdates(context.Background(), func(weather.Coordinate) {})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, 0, p.Listeners())
}

func TestFixedProvider(t *testing.T) {
	coord := weather.Coordinate{Latitude: 51.5, Longitude: -0.12}
	p := NewFixedProvider(coord, 50*time.Millisecond, true, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec recorder
	require.NoError(t, p.RequestUpdates(ctx, rec.add))

	assert.Eventually(t, func() bool { return rec.len() >= 2 }, 2*time.Second, 5*time.Millisecond)
	rec.mu.Lock()
	assert.Equal(t, coord, rec.coord[0])
	rec.mu.Unlock()
}

func TestFixedProvider_Errors(t *testing.T) {
	p := NewFixedProvider(weather.Coordinate{}, time.Minute, false, zerolog.Nop())
	assert.ErrorIs(t, p.RequestUpdates(context.Background(), func(weather.Coordinate) {}), ErrPermissionDenied)

	p = NewFixedProvider(weather.Coordinate{Latitude: 100}, time.Minute, true, zerolog.Nop())
	assert.ErrorIs(t, p.RequestUpdates(context.Background(), func(weather.Coordinate) {}), weather.ErrInvalidCoordinate)
}

func TestStaticPermission(t *testing.T) {
	assert.True(t, StaticPermission(true).Granted())
	assert.False(t, StaticPermission(false).Granted())
}
