package mapguess

import "time"

// Task is a scheduled callback that can be cancelled. *time.Timer
// satisfies it.
type Task interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Task
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Task { return time.AfterFunc(d, f) }

// SystemClock schedules on the runtime timer.
var SystemClock Clock = systemClock{}

// Direct runs f on the calling goroutine. It is the dispatch function for
// owners that drive the clock themselves.
func Direct(f func()) { f() }

// Timer is a single one-second-granularity countdown.
//
// Every scheduled tick is handed to the dispatch function, which must run it
// serialised with the owner's calls to Start and Stop. Each countdown carries
// a generation number; a tick whose generation is no longer current is
// dropped, so once Stop returns no tick or expiry of that countdown is
// observed. Timer is not safe for unsynchronised concurrent use.
type Timer struct {
	clock    Clock
	dispatch func(func())

	duration  int
	remaining int
	active    bool
	gen       uint64
	task      Task
}

func NewTimer(clock Clock, dispatch func(func())) *Timer {
	if clock == nil {
		clock = SystemClock
	}
	if dispatch == nil {
		dispatch = Direct
	}
	return &Timer{clock: clock, dispatch: dispatch}
}

// Start cancels any running countdown and begins a new one of the given
// number of seconds. onTick receives the remaining seconds after every
// decrement; onExpire runs once when the countdown reaches zero.
func (t *Timer) Start(seconds int, onTick func(remaining int), onExpire func()) {
	t.Stop()

	t.duration = seconds
	t.remaining = seconds
	t.active = true
	t.gen++
	t.schedule(t.gen, onTick, onExpire)
}

// Stop cancels the running countdown. It is a no-op when none is running.
func (t *Timer) Stop() {
	if !t.active {
		return
	}
	t.active = false
	t.gen++
	if t.task != nil {
		t.task.Stop()
		t.task = nil
	}
}

// Reset stops the countdown and restores the remaining time to the duration
// of the last Start.
func (t *Timer) Reset() {
	t.Stop()
	t.remaining = t.duration
}

func (t *Timer) Remaining() int { return t.remaining }

func (t *Timer) Active() bool { return t.active }

func (t *Timer) schedule(gen uint64, onTick func(int), onExpire func()) {
	t.task = t.clock.AfterFunc(time.Second, func() {
		t.dispatch(func() { t.tick(gen, onTick, onExpire) })
	})
}

func (t *Timer) tick(gen uint64, onTick func(int), onExpire func()) {
	if !t.active || gen != t.gen {
		return
	}

	if t.remaining > 0 {
		t.remaining--
		if onTick != nil {
			onTick(t.remaining)
		}
		// onTick may have stopped or restarted the countdown.
		if !t.active || gen != t.gen {
			return
		}
	}

	if t.remaining <= 0 {
		t.active = false
		t.gen++
		t.task = nil
		if onExpire != nil {
			onExpire()
		}
		return
	}
	t.schedule(gen, onTick, onExpire)
}
