// Package debounce runs the most recently scheduled task once its delay has
// elapsed without another task being scheduled.
package debounce

import (
	"sync"
	"time"
)

// Debouncer is a trailing debounce. It is safe for concurrent use. A task
// that has started running is never interrupted.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
}

func New() *Debouncer {
	return &Debouncer{}
}

// Schedule replaces any pending task with fn, to run after delay.
func (d *Debouncer) Schedule(fn func(), delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(delay, func() { d.fire(gen) })
}

// Cancel drops the pending task. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.take()
	return ok
}

// Flush runs the pending task now, on the calling goroutine. It reports
// whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn, ok := d.take()
	d.mu.Unlock()

	if ok {
		fn()
	}
	return ok
}

// Pending reports whether a task is waiting for its delay.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn, _ := d.take()
	d.mu.Unlock()

	fn()
}

// take must be called with mu held.
func (d *Debouncer) take() (func(), bool) {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	fn := d.pending
	d.pending = nil
	return fn, fn != nil
}
