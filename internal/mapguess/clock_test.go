package mapguess

import "time"

// manualClock fires scheduled tasks only when tick is called. Every task the
// Timer schedules is one second long, so one tick is one second.
type manualClock struct {
	tasks []*manualTask
}

type manualTask struct {
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) Task {
	t := &manualTask{f: f}
	c.tasks = append(c.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (c *manualClock) tick() {
	pending := c.tasks
	c.tasks = nil
	for _, t := range pending {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
	}
}

func (c *manualClock) advance(seconds int) {
	for range seconds {
		c.tick()
	}
}

// fireStopped runs the callbacks of stopped tasks, as if their timers had
// already fired when Stop was called.
func (c *manualClock) fireStopped() {
	for _, t := range c.tasks {
		if t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}
