package temporal

import (
	"math"
	"time"
)

// HysteresisConfig controls when a displayed value follows its measurement.
type HysteresisConfig struct {
	Soft float64       // dead-band edge
	Hard float64       // jump that commits immediately
	Wait time.Duration // dwell time in the soft band before committing
}

// DefaultHysteresis returns the 1/3 point, 3 s settings.
func DefaultHysteresis() HysteresisConfig {
	return HysteresisConfig{Soft: DefaultSoftThreshold, Hard: DefaultHardThreshold, Wait: DefaultWait}
}

func (c HysteresisConfig) withDefaults() HysteresisConfig {
	if c.Soft <= 0 {
		c.Soft = DefaultSoftThreshold
	}
	if c.Hard <= 0 {
		c.Hard = DefaultHardThreshold
	}
	if c.Wait <= 0 {
		c.Wait = DefaultWait
	}
	return c
}

// Sticky is a dead-band plus delayed-commit filter for one displayed value.
type Sticky struct {
	Value       float64
	Since       time.Time
	Pending     bool
	Initialized bool
}

// Update feeds a measurement taken at now and returns the displayed value.
func (s *Sticky) Update(measured float64, now time.Time, cfg HysteresisConfig) float64 {
	if !s.Initialized || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		s.Value, s.Initialized, s.Pending = measured, true, false
		return s.Value
	}

	diff := math.Abs(measured - s.Value)
	switch {
	case diff >= cfg.Hard:
		s.Value, s.Pending = measured, false
	case diff >= cfg.Soft:
		if !s.Pending {
			s.Since, s.Pending = now, true
		}
		if now.Sub(s.Since) >= cfg.Wait {
			s.Value, s.Pending = measured, false
		}
	default:
		s.Pending = false
	}
	return s.Value
}

// Reset returns the filter to its uninitialized state.
func (s *Sticky) Reset() { *s = Sticky{} }
