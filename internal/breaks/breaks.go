// Package breaks implements the rest-break countdown that interrupts a
// practice session when fatigue runs high.
package breaks

import "time"

// Policy is the canonical break configuration.
type Policy struct {
	// Duration is the countdown length.
	Duration time.Duration
	// Relief is subtracted from fatigue when the break ends, whether it
	// ran out or was skipped.
	Relief int
}

// DefaultPolicy returns a 30 second break that relieves 30 fatigue points.
func DefaultPolicy() Policy {
	return Policy{Duration: 30 * time.Second, Relief: 30}
}

// Timer is a cooperative countdown. It never reads the wall clock; the
// owner calls Advance from its own tick source.
type Timer struct {
	policy    Policy
	remaining time.Duration
	active    bool
}

// NewTimer creates an idle timer. A non-positive duration falls back to the default.
func NewTimer(p Policy) *Timer {
	if p.Duration <= 0 {
		p.Duration = DefaultPolicy().Duration
	}
	return &Timer{policy: p}
}

// Policy returns the timer's configuration.
func (t *Timer) Policy() Policy {
	return t.policy
}

// Start begins a break. Returns false without touching the countdown if
// one is already running.
func (t *Timer) Start() bool {
	if t.active {
		return false
	}
	t.active = true
	t.remaining = t.policy.Duration
	return true
}

// Advance moves the countdown forward by d and reports whether the break
// completed during this call.
func (t *Timer) Advance(d time.Duration) bool {
	if !t.active || d <= 0 {
		return false
	}
	t.remaining -= d
	if t.remaining > 0 {
		return false
	}
	t.finish()
	return true
}

// Skip ends the running break early. Returns false if no break was active.
func (t *Timer) Skip() bool {
	if !t.active {
		return false
	}
	t.finish()
	return true
}

func (t *Timer) finish() {
	t.active = false
	t.remaining = 0
}

// Active reports whether a break is running.
func (t *Timer) Active() bool {
	return t.active
}

// Remaining returns the time left on the running break.
func (t *Timer) Remaining() time.Duration {
	return t.remaining
}

// Progress returns the elapsed fraction of the running break in [0,1].
func (t *Timer) Progress() float64 {
	if !t.active {
		return 0
	}
	done := t.policy.Duration - t.remaining
	return float64(done) / float64(t.policy.Duration)
}

// Relieve applies the policy's relief to a fatigue value, flooring at zero.
func (p Policy) Relieve(fatigue int) int {
	return max(0, fatigue-p.Relief)
}
