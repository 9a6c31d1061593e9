// Package clock provides the delayed-callback scheduler used by the page
// controllers. Production code uses Real; tests drive Manual by hand.
package clock

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer, false if it had already fired or been stopped.
	Stop() bool
}

// Scheduler schedules f to run once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules callbacks on the runtime timer. Callbacks run on their own
// goroutine, so receivers must synchronize.
type Real struct{}

// AfterFunc implements Scheduler.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
