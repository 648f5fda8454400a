// Package timer implements the focus session countdown engine.
//
// An Engine counts a fixed duration down one second at a time while running.
// Every transition out of running cancels the pending tick, and each tick
// carries the generation it was scheduled under, so a tick that was already
// in flight when the engine paused or stopped is discarded instead of
// decrementing a stopped engine.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/focusflow/internal/clock"
	apperrors "github.com/julianstephens/focusflow/internal/errors"
)

// Phase is the engine's position in its state machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhasePaused    Phase = "paused"
	PhaseCompleted Phase = "completed"
)

// Label returns the short status shown next to the countdown.
func (p Phase) Label() string {
	switch p {
	case PhaseRunning:
		return "Focusing"
	case PhasePaused:
		return "Paused"
	case PhaseCompleted:
		return "Done"
	default:
		return "Ready"
	}
}

const tickInterval = time.Second

// State is a point-in-time copy of the engine's countdown.
type State struct {
	TotalSeconds     int
	RemainingSeconds int
	Phase            Phase
}

// Elapsed returns the number of seconds already counted down.
func (s State) Elapsed() int {
	return s.TotalSeconds - s.RemainingSeconds
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. The system clock is used by default.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// OnStart registers a callback fired when the engine starts or resumes.
func OnStart(f func()) Option {
	return func(e *Engine) { e.onStart = f }
}

// OnPause registers a callback fired when the engine pauses.
func OnPause(f func()) Option {
	return func(e *Engine) { e.onPause = f }
}

// OnStop registers a callback fired when a running or paused engine is stopped or reset.
func OnStop(f func()) Option {
	return func(e *Engine) { e.onStop = f }
}

// OnComplete registers a callback fired once when the countdown reaches zero.
func OnComplete(f func()) Option {
	return func(e *Engine) { e.onComplete = f }
}

// Engine is a countdown state machine. It is safe for concurrent use.
// Callbacks run synchronously on the goroutine that caused the transition,
// after the engine's lock is released, so they may call back into the engine.
type Engine struct {
	mu        sync.Mutex
	clock     clock.Clock
	total     int
	remaining int
	phase     Phase

	// gen invalidates ticks scheduled during an earlier running period
	gen     uint64
	pending clock.Timer

	// lastTick is when the current second started counting; carry holds
	// running time accumulated toward the next decrement across a pause.
	lastTick time.Time
	carry    time.Duration

	onStart    func()
	onPause    func()
	onStop     func()
	onComplete func()
}

// New creates an idle engine counting down the given number of minutes.
func New(minutes int, opts ...Option) (*Engine, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: %d minutes", apperrors.ErrInvalidDuration, minutes)
	}

	e := &Engine{
		clock:     clock.Real{},
		total:     minutes * 60,
		remaining: minutes * 60,
		phase:     PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns a copy of the current countdown.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		TotalSeconds:     e.total,
		RemainingSeconds: e.remaining,
		Phase:            e.phase,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Progress returns the elapsed share of the countdown as a percentage in [0,100].
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.total-e.remaining) / float64(e.total) * 100
}

// Start moves an idle or paused engine to running.
func (e *Engine) Start() error {
	return e.start(PhaseIdle, PhasePaused)
}

// Resume continues a paused engine from its retained remaining time.
func (e *Engine) Resume() error {
	return e.start(PhasePaused)
}

func (e *Engine) start(from ...Phase) error {
	e.mu.Lock()
	if !e.phaseIn(from...) {
		phase := e.phase
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot start a %s timer", apperrors.ErrInvalidTransition, phase)
	}

	e.phase = PhaseRunning
	e.lastTick = e.clock.Now()
	e.schedule(tickInterval - e.carry)
	cb := e.onStart
	e.mu.Unlock()

	call(cb)
	return nil
}

// Pause suspends a running engine, keeping the remaining time.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.phase != PhaseRunning {
		phase := e.phase
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot pause a %s timer", apperrors.ErrInvalidTransition, phase)
	}

	e.cancel()
	e.carry += e.clock.Now().Sub(e.lastTick)
	if e.carry >= tickInterval {
		// The tick was due but had not run yet; let it fire right after resume.
		e.carry = tickInterval - time.Nanosecond
	}
	e.phase = PhasePaused
	cb := e.onPause
	e.mu.Unlock()

	call(cb)
	return nil
}

// Stop cancels a running or paused countdown and restores the full duration.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.phaseIn(PhaseRunning, PhasePaused) {
		phase := e.phase
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot stop a %s timer", apperrors.ErrInvalidTransition, phase)
	}
	e.rewind()
	cb := e.onStop
	e.mu.Unlock()

	call(cb)
	return nil
}

// Reset returns the engine to idle with the full duration from any phase.
// OnStop fires only when a running or paused countdown is abandoned.
func (e *Engine) Reset() {
	e.mu.Lock()
	var cb func()
	if e.phaseIn(PhaseRunning, PhasePaused) {
		cb = e.onStop
	}
	e.rewind()
	e.mu.Unlock()

	call(cb)
}

// SetDuration changes the configured duration. It is rejected while running.
func (e *Engine) SetDuration(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%w: %d minutes", apperrors.ErrInvalidDuration, minutes)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseRunning {
		return fmt.Errorf("%w: cannot change the duration of a running timer", apperrors.ErrInvalidTransition)
	}
	e.total = minutes * 60
	e.rewind()
	return nil
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.phase != PhaseRunning {
		e.mu.Unlock()
		return
	}

	e.remaining--
	e.carry = 0
	e.lastTick = e.clock.Now()
	if e.remaining > 0 {
		e.pending = e.clock.AfterFunc(tickInterval, func() { e.tick(gen) })
		e.mu.Unlock()
		return
	}

	e.remaining = 0
	e.phase = PhaseCompleted
	e.gen++
	e.pending = nil
	cb := e.onComplete
	e.mu.Unlock()

	call(cb)
}

// schedule cancels any pending tick and schedules a new one under a fresh
// generation. The caller must hold mu.
func (e *Engine) schedule(d time.Duration) {
	e.cancel()
	gen := e.gen
	e.pending = e.clock.AfterFunc(d, func() { e.tick(gen) })
}

// cancel invalidates the pending tick. The caller must hold mu.
func (e *Engine) cancel() {
	e.gen++
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// rewind cancels the countdown and restores the full duration. The caller must hold mu.
func (e *Engine) rewind() {
	e.cancel()
	e.phase = PhaseIdle
	e.remaining = e.total
	e.carry = 0
}

func (e *Engine) phaseIn(phases ...Phase) bool {
	for _, p := range phases {
		if e.phase == p {
			return true
		}
	}
	return false
}

func call(f func()) {
	if f != nil {
		f()
	}
}
