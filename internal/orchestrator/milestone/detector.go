// Package milestone detects when a published score first reaches 100
package milestone

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// PerfectScore is the score that triggers a milestone
const PerfectScore = 100

// Detector fires once each time the published score climbs to PerfectScore,
// at most once per cooldown.
type Detector struct {
	mu       sync.Mutex
	enabled  bool
	cooldown time.Duration
	prev     int
	fired    bool
	lastTime time.Time
}

// NewDetector creates a milestone detector
func NewDetector(cooldown time.Duration, enabled bool) *Detector {
	return &Detector{enabled: enabled, cooldown: cooldown}
}

// Check records a published score at now and reports whether it is a new
// perfect score.
func (d *Detector) Check(ctx context.Context, score int, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.prev
	d.prev = score
	if !d.enabled || score != PerfectScore || prev == PerfectScore {
		return false
	}
	if d.fired && now.Sub(d.lastTime) < d.cooldown {
		return false
	}

	d.fired, d.lastTime = true, now
	trace.Logger(ctx).Info("perfect score reached")
	return true
}

// Reset forgets the previous score; the cooldown still applies
func (d *Detector) Reset() {
	d.mu.Lock()
	d.prev = 0
	d.mu.Unlock()
}

// SetEnabled enables/disables milestone events
func (d *Detector) SetEnabled(enabled bool) {
	d.mu.Lock()
	d.enabled = enabled
	d.mu.Unlock()
}
