package analysis

import (
	"sync"
	"time"
)

// Throttle gates how often results are published to a viewer.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	primed   bool
}

// NewThrottle creates a throttle; non-positive intervals use ThrottleInterval.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = ThrottleInterval
	}
	return &Throttle{interval: interval}
}

// Allow reports whether a result at now should be published under mode.
func (t *Throttle) Allow(mode ScoreMode, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mode == ScoreModeFrame || !t.primed || now.Sub(t.last) >= t.interval {
		t.last, t.primed = now, true
		return true
	}
	return false
}

// Force makes the next Allow succeed.
func (t *Throttle) Force() {
	t.mu.Lock()
	t.primed = false
	t.mu.Unlock()
}
