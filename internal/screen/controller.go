// Package screen holds the state machine behind the weather welcome screen.
// It owns the latest snapshot, the load state and the unit preference, and
// derives the display model from them. Rendering itself happens elsewhere.
package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-screen/internal/location"
	"github.com/i474232898/weather-screen/internal/weather"
)

// ErrClosed is returned by operations on a disposed controller.
var ErrClosed = errors.New("screen controller closed")

// MinFetchDelay is the shortest wait between a location reading and the fetch it triggers.
const MinFetchDelay = 5 * time.Second

// State is the screen's top-level state.
type State int

const (
	StateNoLocationPermission State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateNoLocationPermission:
		return "no_location_permission"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Timer is a scheduled task that can be cancelled before it fires.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run on its own goroutine after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Config wires a Controller to its collaborators.
type Config struct {
	Source     weather.Source
	Locations  location.Provider
	Permission location.PermissionChecker

	// FetchDelay is clamped to MinFetchDelay unless AfterFunc is overridden.
	FetchDelay time.Duration

	// SupersedePending cancels the previous pending or in-flight fetch when a
	// new reading arrives. When false every scheduled fetch runs and the last
	// result to arrive wins.
	SupersedePending bool

	Logger    zerolog.Logger
	AfterFunc AfterFunc
}

// Controller is the screen state for one screen lifetime. All mutations are
// serialized on mu; fetches run on timer goroutines and report back through it.
type Controller struct {
	id        string
	source    weather.Source
	locations location.Provider
	delay     time.Duration
	supersede bool
	afterFunc AfterFunc
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	snapshot   *weather.Snapshot // last delivered
	shown      *weather.Snapshot // last delivered with a name
	unit       weather.Unit
	generation uint64
	pending    Timer
	inflight   context.CancelFunc
	started    bool
	closed     bool
}

// NewController builds a controller and fixes its initial state from the
// current permission.
func NewController(cfg Config) *Controller {
	afterFunc := cfg.AfterFunc
	delay := cfg.FetchDelay
	if afterFunc == nil {
		afterFunc = stdAfterFunc
		if delay < MinFetchDelay {
			delay = MinFetchDelay
		}
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		id:        id,
		source:    cfg.Source,
		locations: cfg.Locations,
		delay:     delay,
		supersede: cfg.SupersedePending,
		afterFunc: afterFunc,
		log:       cfg.Logger.With().Str("component", "screen").Str("session", id).Logger(),
		ctx:       ctx,
		cancel:    cancel,
		state:     StateLoading,
		unit:      weather.Celsius,
	}

	if cfg.Permission == nil || !cfg.Permission.Granted() {
		c.state = StateNoLocationPermission
	}
	c.log.Info().Str("state", c.state.String()).Msg("screen created")
	return c
}

// ID returns the session identifier of this controller.
func (c *Controller) ID() string {
	return c.id
}

// Start registers for location updates; later calls are no-ops. A permission
// failure is not an error: it is logged and the screen falls back to
// "no location available".
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started || c.state == StateNoLocationPermission || c.locations == nil {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	err := c.locations.RequestUpdates(c.ctx, c.OnLocationUpdate)
	if err == nil {
		return nil
	}
	if errors.Is(err, location.ErrPermissionDenied) {
		c.log.Warn().Err(err).Msg("location registration refused")
		c.mu.Lock()
		c.state = StateNoLocationPermission
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.started = false
	c.mu.Unlock()
	return fmt.Errorf("request location updates: %w", err)
}

// OnLocationUpdate schedules a weather fetch for coord after the fetch delay.
func (c *Controller) OnLocationUpdate(coord weather.Coordinate) {
	c.schedule(weather.CoordinateQuery(coord))
}

func (c *Controller) schedule(q weather.Query) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state == StateNoLocationPermission {
		return
	}

	if c.supersede {
		c.cancelPendingLocked()
	}
	c.generation++
	gen := c.generation

	fetchCtx, cancel := context.WithCancel(c.ctx)
	if c.supersede {
		c.inflight = cancel
	}
	c.pending = c.afterFunc(c.delay, func() {
		c.fetch(fetchCtx, cancel, gen, q)
	})
	c.log.Debug().Str("query", string(q)).Uint64("generation", gen).Dur("delay", c.delay).Msg("fetch scheduled")
}

func (c *Controller) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, q weather.Query) {
	defer cancel()
	if ctx.Err() != nil {
		return
	}

	snap, err := c.source.Fetch(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			c.log.Debug().Uint64("generation", gen).Msg("fetch cancelled")
			return
		}
		c.log.Warn().Err(err).Str("source", c.source.Name()).Str("query", string(q)).Msg("weather fetch failed")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.supersede && gen != c.generation {
		c.log.Debug().Uint64("generation", gen).Uint64("current", c.generation).Msg("dropping superseded result")
		return
	}
	c.applyLocked(snap)
}

// OnWeatherResult replaces the held snapshot and recomputes the state.
func (c *Controller) OnWeatherResult(snap weather.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.applyLocked(snap)
}

func (c *Controller) applyLocked(snap weather.Snapshot) {
	c.snapshot = &snap
	if ComputeLoadState(c.snapshot) != LoadStateLoaded {
		return
	}
	c.shown = c.snapshot
	if c.state == StateLoading {
		c.state = StateLoaded
		c.log.Info().Str("location", snap.LocationName).Msg("weather loaded")
	}
}

// SetUnitPreference changes the display unit only.
func (c *Controller) SetUnitPreference(u weather.Unit) error {
	if !u.Valid() {
		return fmt.Errorf("%w: %q", weather.ErrInvalidUnit, u)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.unit = u
	return nil
}

// State returns the current screen state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Unit returns the current display unit.
func (c *Controller) Unit() weather.Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unit
}

// Snapshot returns the last delivered snapshot, if any.
func (c *Controller) Snapshot() (weather.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return weather.Snapshot{}, false
	}
	return *c.snapshot, true
}

// Render derives the display model from the current state.
func (c *Controller) Render() DisplayModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := DisplayModel{
		Session: c.id,
		State:   c.state.String(),
		Unit:    c.unit,
		Actions: []Action{ActionExploreCities, ActionBack},
	}
	switch c.state {
	case StateNoLocationPermission:
		m.Message = MessageNoLocation
	case StateLoading:
		m.Message = MessageLoading
	case StateLoaded:
		m.Text = CurrentTemperatureText(c.shown.LocationName, c.shown.TemperatureC, c.unit)
	}
	return m
}

// Close cancels pending and in-flight fetches. Later results are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelPendingLocked()
	c.mu.Unlock()

	c.cancel()
	c.log.Info().Msg("screen disposed")
}
