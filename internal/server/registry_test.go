package server

import (
	"context"
	"testing"
	"time"

	"github.com/playperu/mapguess/internal/mapguess"
)

func TestRegistrySweep(t *testing.T) {
	env := newTestEnv(t)
	idle := env.create(t).ID
	fresh := env.create(t).ID

	s, err := env.sessions.Get(fresh)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	later := time.Now().Add(2 * time.Minute)
	s.do(later, func(*mapguess.Engine) error { return nil })

	if n := env.sessions.Sweep(later.Add(time.Second)); n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}
	if _, err := env.sessions.Get(idle); err != ErrNotFound {
		t.Errorf("idle session err = %v, want ErrNotFound", err)
	}
	if _, err := env.sessions.Get(fresh); err != nil {
		t.Errorf("fresh session err = %v, want nil", err)
	}
}

func TestRegistryRemoveClosesSubscribers(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t).ID
	ch := env.broker.Subscribe(id)

	if !env.sessions.Remove(id) {
		t.Fatal("remove returned false")
	}
	if _, ok := <-ch; ok {
		t.Error("expected subscriber channel to be closed")
	}
	if env.sessions.Remove(id) {
		t.Error("second remove returned true")
	}

	// Unsubscribing after the session ended is a no-op.
	env.broker.Unsubscribe(id, ch)
}

func TestRegistryRunStopsWithContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- env.sessions.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run err = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
