package mapguess

import (
	"errors"
	"fmt"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

type State string

const (
	StateIdle         State = "idle"
	StateRoundActive  State = "round_active"
	StateAnswerLocked State = "answer_locked"
	StateGameOver     State = "game_over"
)

// RoundState is the mutable state of the current round.
type RoundState struct {
	Number   int
	Target   Location
	Pending  *Coordinate
	Locked   bool
	TimeLeft int
}

type GameState struct {
	TotalScore      int `json:"totalScore"`
	RoundsCompleted int `json:"roundsCompleted"`
	RoundsTotal     int `json:"roundsTotal"`
}

// Snapshot is a read-only view of an engine. The target coordinate of an
// active round is withheld; it appears in Last once the round is locked.
type Snapshot struct {
	State    State       `json:"state"`
	Round    int         `json:"round"`
	Address  string      `json:"address,omitempty"`
	Pending  *Coordinate `json:"pending,omitempty"`
	Locked   bool        `json:"locked"`
	TimeLeft int         `json:"timeLeft"`
	Game     GameState   `json:"game"`
	Last     *Result     `json:"last,omitempty"`
}

// Engine runs one session of RoundsTotal rounds.
//
// Engine is not safe for concurrent use. Its input methods and the timer's
// dispatch function must be serialised by the owner, which makes a confirm
// racing a timeout resolve to whichever runs first.
type Engine struct {
	settings Settings
	sampler  *Sampler
	timer    *Timer
	listener Listener

	state State
	round RoundState
	game  GameState
	last  *Result
}

func NewEngine(settings Settings, sampler *Sampler, timer *Timer, listener Listener) (*Engine, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if sampler == nil || timer == nil {
		return nil, errors.New("engine requires a sampler and a timer")
	}
	if listener == nil {
		listener = nopListener{}
	}
	return &Engine{
		settings: settings,
		sampler:  sampler,
		timer:    timer,
		listener: listener,
		state:    StateIdle,
		game:     GameState{RoundsTotal: settings.RoundsTotal},
	}, nil
}

// Start begins round 1.
func (e *Engine) Start() error {
	if e.state != StateIdle {
		return ErrAlreadyStarted
	}
	e.startRound(1)
	return nil
}

// MapClicked records p as the pending guess of the active round.
func (e *Engine) MapClicked(p Coordinate) error {
	if err := e.requireActive(); err != nil {
		return err
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: %v,%v", ErrInvalidCoordinate, p.Lat, p.Lon)
	}

	e.round.Pending = &p
	e.emit(Event{
		Type:     EventGuessPending,
		Round:    e.round.Number,
		TimeLeft: e.round.TimeLeft,
		Guess:    &p,
	})
	return nil
}

// ConfirmGuess locks the round with the pending guess and scores it.
func (e *Engine) ConfirmGuess() (Result, error) {
	if err := e.requireActive(); err != nil {
		return Result{}, err
	}
	if e.round.Pending == nil {
		return Result{}, ErrNoPendingGuess
	}

	e.lock()

	guess := *e.round.Pending
	target := e.round.Target.Coordinate()
	distance := DistanceKm(guess, target)
	res := Result{
		Round:      e.round.Number,
		Address:    e.round.Target.Address(),
		Target:     target,
		Guess:      &guess,
		DistanceKm: distance,
		Score:      Score(distance, e.round.TimeLeft, e.settings.RoundSeconds, e.settings.TimeWeight),
	}
	e.finish(res)
	return res, nil
}

// AdvanceRound moves from a locked round to the next round, or to game over
// after the last one.
func (e *Engine) AdvanceRound() error {
	switch e.state {
	case StateIdle:
		return ErrNotStarted
	case StateRoundActive:
		return ErrRoundActive
	case StateGameOver:
		return ErrGameOver
	}

	if e.game.RoundsCompleted >= e.game.RoundsTotal {
		e.timer.Stop()
		e.state = StateGameOver
		e.emit(Event{
			Type:  EventGameOver,
			Round: e.round.Number,
		})
		return nil
	}

	e.startRound(e.round.Number + 1)
	return nil
}

// Close abandons the session and stops its countdown.
func (e *Engine) Close() {
	e.timer.Stop()
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Game() GameState { return e.game }

// TotalScore is final once State is StateGameOver.
func (e *Engine) TotalScore() int { return e.game.TotalScore }

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:    e.state,
		Round:    e.round.Number,
		Locked:   e.round.Locked,
		TimeLeft: e.round.TimeLeft,
		Game:     e.game,
	}
	if e.state != StateIdle {
		s.Address = e.round.Target.Address()
	}
	if e.round.Pending != nil {
		p := *e.round.Pending
		s.Pending = &p
	}
	if e.last != nil {
		last := *e.last
		s.Last = &last
	}
	return s
}

func (e *Engine) requireActive() error {
	switch e.state {
	case StateIdle:
		return ErrNotStarted
	case StateAnswerLocked:
		return ErrRoundLocked
	case StateGameOver:
		return ErrGameOver
	}
	if e.round.Locked {
		return ErrRoundLocked
	}
	return nil
}

func (e *Engine) startRound(n int) {
	e.round = RoundState{
		Number:   n,
		Target:   e.sampler.Next(),
		TimeLeft: e.settings.RoundSeconds,
	}
	e.last = nil
	e.state = StateRoundActive

	e.emit(Event{
		Type:     EventRoundStarted,
		Round:    n,
		Address:  e.round.Target.Address(),
		TimeLeft: e.round.TimeLeft,
	})
	e.timer.Start(e.settings.RoundSeconds, e.onTick, e.onExpire)
}

// lock must run before any scoring side effect of a transition.
func (e *Engine) lock() {
	e.round.Locked = true
	e.state = StateAnswerLocked
	e.timer.Stop()
}

func (e *Engine) finish(res Result) {
	e.game.TotalScore += res.Score
	e.game.RoundsCompleted++
	e.last = &res

	e.emit(Event{
		Type:     EventAnswerLocked,
		Round:    res.Round,
		TimeLeft: e.round.TimeLeft,
		Guess:    res.Guess,
		Result:   &res,
	})
}

func (e *Engine) onTick(remaining int) {
	if e.state != StateRoundActive || e.round.Locked {
		return
	}
	e.round.TimeLeft = remaining
	e.emit(Event{
		Type:     EventTimerTick,
		Round:    e.round.Number,
		TimeLeft: remaining,
	})
}

func (e *Engine) onExpire() {
	if e.state != StateRoundActive || e.round.Locked {
		return
	}

	e.lock()
	e.round.TimeLeft = 0
	e.round.Pending = nil
	e.finish(Result{
		Round:    e.round.Number,
		Address:  e.round.Target.Address(),
		Target:   e.round.Target.Coordinate(),
		TimedOut: true,
	})
}

func (e *Engine) emit(ev Event) {
	ev.TotalScore = e.game.TotalScore
	e.listener.OnEvent(ev)
}
