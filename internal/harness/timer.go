package harness

import "time"

// Timer measures the wall clock time of a single timed block.
// Nesting is not supported: Start overwrites any unread start time.
type Timer struct {
	now     func() time.Time
	start   time.Time
	started bool
}

// NewTimer returns a Timer backed by the monotonic clock.
func NewTimer() *Timer {
	return NewTimerWithClock(time.Now)
}

// NewTimerWithClock returns a Timer that reads time from now.
func NewTimerWithClock(now func() time.Time) *Timer {
	return &Timer{now: now}
}

// Start records the current time.
func (t *Timer) Start() {
	t.start = t.now()
	t.started = true
}

// Elapsed returns the seconds since the last Start.
// A timer that was never started reports 0.
func (t *Timer) Elapsed() float64 {
	if !t.started {
		return 0
	}
	return t.now().Sub(t.start).Seconds()
}
