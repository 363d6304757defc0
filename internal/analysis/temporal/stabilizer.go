package temporal

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// Segment is one ranked cluster entering the stabilizer.
type Segment struct {
	Weight float64 // fraction of eligible pixels, 0..1
	Color  [3]uint8
}

// Slot is one displayed proportion.
type Slot struct {
	Pct   float64  `json:"pct"`
	Color [3]uint8 `json:"color"`
}

// Proportions is the display-ready three-slot split.
type Proportions [Slots]Slot

// Percentages returns the slot values.
func (p Proportions) Percentages() [Slots]float64 {
	var out [Slots]float64
	for i, s := range p {
		out[i] = s.Pct
	}
	return out
}

// Config configures a Stabilizer.
type Config struct {
	Alpha      float64
	Hysteresis HysteresisConfig
}

// Update is the outcome of one stabilizer step.
type Update struct {
	// Measured is the EMA output renormalized to 100, before hysteresis.
	Measured Proportions
	// Displayed is the hysteresis-filtered value shown to the user.
	Displayed Proportions
}

// Stabilizer smooths ranked cluster weights with an EMA and filters the
// result per slot with a sticky hysteresis filter. It must be fed frames in
// timestamp order.
type Stabilizer struct {
	cfg     Config
	ema     *EMA
	sticky  [Slots]Sticky
	display Proportions
}

// NewStabilizer creates a stabilizer with empty state.
func NewStabilizer(cfg Config) *Stabilizer {
	cfg.Hysteresis = cfg.Hysteresis.withDefaults()
	s := &Stabilizer{cfg: cfg, ema: NewEMA(cfg.Alpha)}
	s.resetDisplay()
	return s
}

// Update advances the filters with this frame's segments. A scene cut clears
// the EMA so the new weights become its baseline; hysteresis state is kept.
func (s *Stabilizer) Update(segments []Segment, cut bool, now time.Time) Update {
	padded := Pad(segments)
	if cut {
		s.ema.Clear()
	}

	raw := make([]float64, Slots)
	for i, seg := range padded {
		raw[i] = seg.Weight * 100
	}
	smoothed := s.ema.Update(raw)
	if total := floats.Sum(smoothed); total > 0 {
		floats.Scale(100/total, smoothed)
	}

	var u Update
	for i := range padded {
		u.Measured[i] = Slot{Pct: smoothed[i], Color: padded[i].Color}
		shown := s.sticky[i].Update(smoothed[i], now, s.cfg.Hysteresis)
		s.display[i] = Slot{Pct: shown, Color: padded[i].Color}
	}
	u.Displayed = s.display
	return u
}

// Displayed returns the last displayed proportions.
func (s *Stabilizer) Displayed() Proportions { return s.display }

// Reset clears EMA and hysteresis so the next frame snaps immediately.
func (s *Stabilizer) Reset() {
	s.ema.Clear()
	for i := range s.sticky {
		s.sticky[i].Reset()
	}
	s.resetDisplay()
}

func (s *Stabilizer) resetDisplay() {
	for i := range s.display {
		s.display[i] = Slot{Color: NeutralGray}
	}
}

// Pad returns exactly Slots segments, filling missing ones with zero-weight gray.
func Pad(segments []Segment) [Slots]Segment {
	var out [Slots]Segment
	for i := range out {
		if i < len(segments) {
			out[i] = segments[i]
		} else {
			out[i] = Segment{Color: NeutralGray}
		}
	}
	return out
}
