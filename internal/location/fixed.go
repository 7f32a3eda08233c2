package location

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-screen/internal/weather"
)

// FixedProvider periodically emits a configured coordinate, standing in for a
// positioning service on a headless host.
type FixedProvider struct {
	coord    weather.Coordinate
	interval time.Duration
	granted  bool
	log      zerolog.Logger
}

// NewFixedProvider creates a FixedProvider. A non-positive interval defaults to one minute.
func NewFixedProvider(coord weather.Coordinate, interval time.Duration, granted bool, log zerolog.Logger) *FixedProvider {
	if interval <= 0 {
		interval = time.Minute
	}
	return &FixedProvider{
		coord:    coord,
		interval: interval,
		granted:  granted,
		log:      log.With().Str("component", "location.fixed").Logger(),
	}
}

// RequestUpdates starts a scheduler that emits the coordinate immediately and
// then once per interval, until ctx is done.
func (p *FixedProvider) RequestUpdates(ctx context.Context, cb Callback) error {
	if !p.granted {
		return ErrPermissionDenied
	}
	if err := p.coord.Validate(); err != nil {
		return err
	}

	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(p.interval).Do(func() {
		if ctx.Err() != nil {
			return
		}
		p.log.Debug().Float64("lat", p.coord.Latitude).Float64("lon", p.coord.Longitude).Msg("emitting fixed reading")
		cb(p.coord)
	})
	if err != nil {
		return fmt.Errorf("schedule location updates: %w", err)
	}

	s.StartAsync()
	go func() {
		<-ctx.Done()
		s.Stop()
		p.log.Debug().Msg("location updates stopped")
	}()
	return nil
}
