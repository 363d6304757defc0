// Package composition scores a frame against the 60/30/10 color split and
// golden-ratio power points.
package composition

// Grading constants
const (
	// Deviation in percentage points at which a slot's penalty saturates
	MaxDeviation = 30.0

	PassScore = 85
	FailScore = 60
)

// Target split and per-slot penalty weights, largest segment first.
var (
	Target  = [3]float64{60, 30, 10}
	Weights = [3]float64{0.5, 0.35, 0.15}
)

// Saliency constants
const (
	DefaultBeta     = 0.0
	DefaultGamma    = 1.0
	DefaultQuantile = 5.0

	MaxGamma = 2.0

	// Floor for the per-frame contrast and edge maxima
	minNorm = 1e-6
)

// Golden ratio constants
const (
	Phi = 1.61803398875

	// Distance, as a fraction of the frame diagonal, at which the score hits 0
	GoldenFalloff = 0.15
)
