// Package timer implements the pomodoro countdown: three modes, a one
// second tick while running, and the focus/break rotation on completion.
package timer

import (
	"fmt"
	"sync"
	"time"

	"pomodoro/internal/observe"
)

// Engine is the countdown state machine. At most one ticker goroutine exists
// at a time; it runs only while the engine is running.
type Engine struct {
	mu        sync.Mutex
	durations Durations
	state     State
	interval  time.Duration
	newTicker TickerFactory
	stop      chan struct{}
	events    observe.Subject[Event]
}

type Option func(*Engine)

// WithTickerFactory replaces time.NewTicker, mostly for tests.
func WithTickerFactory(factory TickerFactory) Option {
	return func(e *Engine) {
		e.newTicker = factory
	}
}

// WithInterval changes the tick period. One tick always removes one second.
func WithInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.interval = interval
		}
	}
}

// New returns a stopped engine in focus mode with the full focus duration.
func New(durations Durations, opts ...Option) *Engine {
	e := &Engine{
		durations: durations,
		interval:  time.Second,
		newTicker: NewStdTicker,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = State{Mode: Focus, Remaining: e.secondsFor(Focus)}
	return e
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers fn for every state change. fn runs on the goroutine
// that caused the change, after the engine lock is released.
func (e *Engine) Subscribe(fn func(Event)) func() {
	return e.events.Subscribe(fn)
}

// Start begins counting down. It does nothing when already running or when
// no time is left.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.state.Running || e.state.Remaining <= 0 {
		e.mu.Unlock()
		return
	}
	e.state.Running = true
	e.startTickerLocked()
	event := Event{Type: EventStateChange, State: e.state}
	e.mu.Unlock()

	e.events.Notify(event)
}

// Pause stops the countdown and keeps the remaining time.
func (e *Engine) Pause() {
	e.mu.Lock()
	if !e.state.Running {
		e.mu.Unlock()
		return
	}
	e.state.Running = false
	e.stopTickerLocked()
	event := Event{Type: EventStateChange, State: e.state}
	e.mu.Unlock()

	e.events.Notify(event)
}

// Toggle pauses a running engine and starts a stopped one.
func (e *Engine) Toggle() {
	if e.State().Running {
		e.Pause()
		return
	}
	e.Start()
}

// Reset returns to a stopped focus session and zeroes the completed count.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopTickerLocked()
	e.state = State{Mode: Focus, Remaining: e.secondsFor(Focus)}
	event := Event{Type: EventStateChange, State: e.state}
	e.mu.Unlock()

	e.events.Notify(event)
}

// SwitchMode stops the engine and loads the full duration of mode.
func (e *Engine) SwitchMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("switch mode: invalid mode %q", mode)
	}

	e.mu.Lock()
	e.stopTickerLocked()
	e.state.Running = false
	e.state.Mode = mode
	e.state.Remaining = e.secondsFor(mode)
	event := Event{Type: EventStateChange, State: e.state}
	e.mu.Unlock()

	e.events.Notify(event)
	return nil
}

// ApplySettings reloads the current mode's duration when the engine is not
// running. A running countdown keeps its remaining time.
func (e *Engine) ApplySettings() {
	e.mu.Lock()
	if e.state.Running {
		e.mu.Unlock()
		return
	}
	e.state.Remaining = e.secondsFor(e.state.Mode)
	event := Event{Type: EventStateChange, State: e.state}
	e.mu.Unlock()

	e.events.Notify(event)
}

// Tick removes one second while running. Reaching zero completes the
// session: the engine stops, rotates the mode and reloads its duration.
func (e *Engine) Tick() {
	e.mu.Lock()
	event, ok := e.tickLocked()
	e.mu.Unlock()

	if ok {
		e.events.Notify(event)
	}
}

// Close stops the ticker goroutine. The engine stays usable.
func (e *Engine) Close() {
	e.mu.Lock()
	wasRunning := e.state.Running
	e.state.Running = false
	e.stopTickerLocked()
	event := Event{Type: EventStateChange, State: e.state}
	e.mu.Unlock()

	if wasRunning {
		e.events.Notify(event)
	}
}

func (e *Engine) tickLocked() (Event, bool) {
	if !e.state.Running || e.state.Remaining <= 0 {
		return Event{}, false
	}

	e.state.Remaining--
	if e.state.Remaining > 0 {
		return Event{Type: EventTick, State: e.state}, true
	}
	return e.completeLocked(), true
}

func (e *Engine) completeLocked() Event {
	ended := e.state.Mode
	e.state.Running = false
	e.stopTickerLocked()

	next := Focus
	if ended == Focus {
		e.state.CompletedFocus++
		if e.state.CompletedFocus%LongBreakEvery == 0 {
			next = LongBreak
		} else {
			next = ShortBreak
		}
	}
	e.state.Mode = next
	e.state.Remaining = e.secondsFor(next)

	return Event{Type: EventCompleted, State: e.state, Ended: ended}
}

func (e *Engine) secondsFor(mode Mode) int {
	d := e.durations.Duration(mode)
	seconds := int(d / time.Second)
	if seconds <= 0 && d > 0 {
		seconds = 1
	}
	if seconds < 0 {
		seconds = 0
	}
	return seconds
}

// startTickerLocked replaces any running ticker goroutine with a new one.
func (e *Engine) startTickerLocked() {
	e.stopTickerLocked()

	ticker := e.newTicker(e.interval)
	stop := make(chan struct{})
	e.stop = stop
	go e.run(ticker, stop)
}

func (e *Engine) stopTickerLocked() {
	if e.stop == nil {
		return
	}
	close(e.stop)
	e.stop = nil
}

func (e *Engine) run(ticker Ticker, stop chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			e.tickFrom(stop)
		}
	}
}

// tickFrom ignores a tick that raced with the cancellation of its loop.
func (e *Engine) tickFrom(stop chan struct{}) {
	e.mu.Lock()
	if e.stop != stop {
		e.mu.Unlock()
		return
	}
	event, ok := e.tickLocked()
	e.mu.Unlock()

	if ok {
		e.events.Notify(event)
	}
}
