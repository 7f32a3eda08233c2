package location

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-screen/internal/weather"
)

// PushProvider forwards readings pushed by the device (over the HTTP API) to
// the registered listeners.
type PushProvider struct {
	mu        sync.RWMutex
	granted   bool
	nextID    int
	listeners map[int]Callback
	log       zerolog.Logger
}

// NewPushProvider creates a PushProvider. When granted is false every
// registration fails with ErrPermissionDenied.
func NewPushProvider(granted bool, log zerolog.Logger) *PushProvider {
	return &PushProvider{
		granted:   granted,
		listeners: make(map[int]Callback),
		log:       log.With().Str("component", "location.push").Logger(),
	}
}

func (p *PushProvider) RequestUpdates(ctx context.Context, cb Callback) error {
	if !p.granted {
		return ErrPermissionDenied
	}

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = cb
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}()
	return nil
}

// Push delivers c to every registered listener and returns how many received it.
func (p *PushProvider) Push(c weather.Coordinate) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	p.mu.RLock()
	cbs := make([]Callback, 0, len(p.listeners))
	for _, cb := range p.listeners {
		cbs = append(cbs, cb)
	}
	p.mu.RUnlock()

	for _, cb := range cbs {
		cb(c)
	}
	p.log.Debug().Float64("lat", c.Latitude).Float64("lon", c.Longitude).Int("listeners", len(cbs)).Msg("reading pushed")
	return len(cbs), nil
}

// Listeners returns the number of active registrations.
func (p *PushProvider) Listeners() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}
