package mapguess

type EventType string

const (
	EventRoundStarted EventType = "round_started"
	EventGuessPending EventType = "guess_pending"
	EventTimerTick    EventType = "timer_tick"
	EventAnswerLocked EventType = "answer_locked"
	EventGameOver     EventType = "game_over"
)

// Result is the fixed outcome of a locked round.
type Result struct {
	Round      int         `json:"round"`
	Address    string      `json:"address"`
	Target     Coordinate  `json:"target"`
	Guess      *Coordinate `json:"guess,omitempty"`
	DistanceKm int         `json:"distanceKm"`
	TimedOut   bool        `json:"timedOut"`
	Score      int         `json:"score"`
}

// Event is emitted by the Engine to its Listener.
type Event struct {
	Type       EventType   `json:"type"`
	Round      int         `json:"round"`
	Address    string      `json:"address,omitempty"`
	TimeLeft   int         `json:"timeLeft"`
	Guess      *Coordinate `json:"guess,omitempty"`
	Result     *Result     `json:"result,omitempty"`
	TotalScore int         `json:"totalScore"`
}

// Listener receives engine events. OnEvent runs synchronously inside the
// transition that produced the event and must not call back into the Engine.
type Listener interface {
	OnEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

type nopListener struct{}

func (nopListener) OnEvent(Event) {}
