package listing

import (
	"sync"
	"time"
)

// DefaultDelay is the filter debounce delay used when none is configured.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs only the last function handed to Trigger, once the delay has
// elapsed without another Trigger.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	gen     uint64
}

// NewDebouncer returns a Debouncer with the given delay. A non-positive delay
// makes Trigger run fn synchronously.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger schedules fn, replacing any function still waiting.
func (d *Debouncer) Trigger(fn func()) {
	if d.delay <= 0 {
		d.Stop()
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			// Replaced or stopped after the timer had already fired.
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()
		run()
	})
}

// Flush runs the waiting function immediately. It reports whether one was waiting.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	run := d.takeLocked()
	d.mu.Unlock()
	if run == nil {
		return false
	}
	run()
	return true
}

// Stop drops the waiting function. It reports whether one was waiting.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.takeLocked() != nil
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) takeLocked() func() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	run := d.pending
	d.pending = nil
	return run
}
