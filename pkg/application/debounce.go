// Package application orchestrates the feedback document engine: it owns the
// live document, routes intents through the reducer, and coordinates load,
// debounced autosave, manual save and submission against a draft store.
package application

import (
	"sync"
	"time"
)

// Timer is the cancellable handle a Debouncer holds on scheduled work.
// *time.Timer satisfies it; tests substitute a hand-driven fake.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn to run after d. The default is time.AfterFunc;
// deterministic tests inject their own.
type TimerFactory func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Debouncer coalesces rapid triggers into a single trailing-edge callback:
// the callback fires only after the window elapses with no further triggers.
type Debouncer struct {
	window   time.Duration
	callback func()
	newTimer TimerFactory

	mu    sync.Mutex
	timer Timer
}

// NewDebouncer creates a debouncer with the given window duration. A nil
// factory uses real timers.
func NewDebouncer(window time.Duration, callback func(), factory TimerFactory) *Debouncer {
	if factory == nil {
		factory = afterFunc
	}
	return &Debouncer{
		window:   window,
		callback: callback,
		newTimer: factory,
	}
}

// Trigger resets the debounce timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.newTimer(d.window, d.callback)
}

// Stop cancels any pending callback. Unconditional: safe to call with nothing
// scheduled, and required on teardown so no timer outlives its session.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
