package screen

import (
	"sync"

	"github.com/rs/zerolog"
)

// Session keeps the one active screen. Entering the screen again replaces the
// controller; nothing carries over from the previous one.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	current *Controller
	log     zerolog.Logger
}

// NewSession creates a Session that builds controllers from cfg.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg: cfg,
		log: cfg.Logger.With().Str("component", "session").Logger(),
	}
}

// Enter disposes the active controller, if any, then creates and starts a new one.
func (s *Session) Enter() (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enterLocked()
}

func (s *Session) enterLocked() (*Controller, error) {
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}

	c := NewController(s.cfg)
	if err := c.Start(); err != nil {
		c.Close()
		return nil, err
	}
	s.current = c
	s.log.Debug().Str("session", c.ID()).Msg("screen entered")
	return c, nil
}

// Current returns the active controller, entering the screen if none exists.
func (s *Session) Current() (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return s.current, nil
	}
	return s.enterLocked()
}

// Close disposes the active controller.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Close()
		s.current = nil
	}
}
