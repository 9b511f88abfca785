package server

import (
	"errors"
	"sync"
	"time"

	"github.com/playperu/mapguess/internal/mapguess"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrSessionClosed = errors.New("session closed")
	ErrNotGameOver   = errors.New("game is not over")
	ErrSubmitted     = errors.New("score already submitted")
)

// Session is one player's game. Its mutex is the event loop of the engine:
// HTTP inputs and timer callbacks both run under it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	engine    *mapguess.Engine
	lastSeen  time.Time
	closed    bool
	submitted bool
}

func newSession(id string, now time.Time, catalog *mapguess.Catalog, settings mapguess.Settings,
	rnd mapguess.Source, clock mapguess.Clock, broker *Broker,
) (*Session, error) {
	s := &Session{ID: id, CreatedAt: now, lastSeen: now}

	timer := mapguess.NewTimer(clock, s.dispatch)
	listener := mapguess.ListenerFunc(func(e mapguess.Event) { broker.Publish(id, e) })

	engine, err := mapguess.NewEngine(settings, mapguess.NewSampler(catalog, rnd), timer, listener)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// dispatch runs timer callbacks on the session's event loop.
func (s *Session) dispatch(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	f()
}

// do runs fn on the session's event loop and returns the resulting snapshot.
func (s *Session) do(now time.Time, fn func(e *mapguess.Engine) error) (mapguess.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return mapguess.Snapshot{}, ErrSessionClosed
	}
	s.lastSeen = now
	if err := fn(s.engine); err != nil {
		return s.engine.Snapshot(), err
	}
	return s.engine.Snapshot(), nil
}

func (s *Session) Snapshot() mapguess.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// claimScore returns the final score once per finished game.
func (s *Session) claimScore() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.closed:
		return 0, ErrSessionClosed
	case s.engine.State() != mapguess.StateGameOver:
		return 0, ErrNotGameOver
	case s.submitted:
		return 0, ErrSubmitted
	}
	s.submitted = true
	return s.engine.TotalScore(), nil
}

// releaseScore undoes claimScore after a failed submission.
func (s *Session) releaseScore() {
	s.mu.Lock()
	s.submitted = false
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.engine.Close()
}
