package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/mapguess/internal/mapguess"
)

// RegistryConfig holds what every new session is built from.
type RegistryConfig struct {
	Catalog  *mapguess.Catalog
	Settings mapguess.Settings
	IdleTTL  time.Duration

	// Clock and NewSource default to the wall clock and a randomly seeded PCG.
	Clock     mapguess.Clock
	NewSource func() mapguess.Source
}

// Registry holds the live sessions of the process.
type Registry struct {
	cfg    RegistryConfig
	broker *Broker
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(cfg RegistryConfig, broker *Broker, logger *slog.Logger) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = mapguess.SystemClock
	}
	if cfg.NewSource == nil {
		cfg.NewSource = func() mapguess.Source {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return &Registry{
		cfg:      cfg,
		broker:   broker,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session at round 1.
func (r *Registry) Create() (*Session, error) {
	id := uuid.NewString()
	s, err := newSession(id, r.now(), r.cfg.Catalog, r.cfg.Settings, r.cfg.NewSource(), r.cfg.Clock, r.broker)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	if _, err := s.do(r.now(), func(e *mapguess.Engine) error { return e.Start() }); err != nil {
		r.Remove(id)
		return nil, fmt.Errorf("starting session: %w", err)
	}

	r.logger.Info("session started", "session_id", id)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove abandons a session: its timer stops and its subscribers are closed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}

	s.close()
	r.broker.Close(id)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the configured TTL.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.RLock()
	var stale []string
	for id, s := range r.sessions {
		if now.Sub(s.idleSince()) > r.cfg.IdleTTL {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if r.Remove(id) {
			n++
		}
	}
	if n > 0 {
		r.logger.Info("idle sessions removed", "count", n)
	}
	return n
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			r.Sweep(now)
		}
	}
}

// Close abandons every session.
func (r *Registry) Close() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.Remove(id)
	}
}
