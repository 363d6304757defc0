// Package temporal stabilizes per-frame color proportions across frames
package temporal

import "time"

// Smoothing constants
const (
	// EMA blend factor for new measurements
	DefaultAlpha = 0.35

	// Number of displayed proportion slots
	Slots = 3
)

// Hysteresis constants, in percentage points
const (
	DefaultSoftThreshold = 1.0
	DefaultHardThreshold = 3.0
	DefaultWait          = 3 * time.Second
)

// Scene cut constants
const (
	// Euclidean RGB distance between sparse means that counts as a cut
	DefaultSceneCutThreshold = 12.0

	// Sparse mean samples every Nth pixel (32 bytes of RGBA)
	SceneSampleStride = 8
)

// NeutralGray fills slots that have no cluster behind them.
var NeutralGray = [3]uint8{60, 60, 60}
