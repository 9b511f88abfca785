package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playperu/mapguess/internal/mapguess"
)

func TestBrokerPublish(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("a")
	other := b.Subscribe("b")
	defer b.Unsubscribe("a", a)
	defer b.Unsubscribe("b", other)

	b.Publish("a", mapguess.Event{Type: mapguess.EventTimerTick, Round: 1, TimeLeft: 19})

	select {
	case data := <-a:
		var ev mapguess.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != mapguess.EventTimerTick || ev.TimeLeft != 19 {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("subscriber did not receive event")
	}

	select {
	case <-other:
		t.Fatal("event leaked to another session")
	default:
	}
}

func TestHandleEventsStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.create(t).ID

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/sessions/"+id+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q", got)
	}

	// Headers are flushed after subscribing, so a tick now reaches the stream.
	env.clock.fire()

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		data, ok := strings.CutPrefix(sc.Text(), "data: ")
		if !ok {
			continue
		}
		var ev mapguess.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatalf("unmarshal %q: %v", data, err)
		}
		if ev.Type != mapguess.EventTimerTick || ev.TimeLeft != 19 {
			t.Fatalf("event = %+v, want tick with 19s left", ev)
		}
		return
	}
	t.Fatalf("stream ended without an event: %v", sc.Err())
}

func waitForSubscriber(t *testing.T, b *Broker, id string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.RLock()
		n := len(b.subs[id])
		b.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no subscriber registered")
}
