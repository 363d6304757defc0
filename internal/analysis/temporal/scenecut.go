package temporal

import (
	"math"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// SparseMean averages RGB over every SceneSampleStride-th pixel.
func SparseMean(f *frame.Frame) [3]float64 {
	var sum [3]float64
	n := 0
	step := SceneSampleStride * frame.Channels
	for i := 0; i+2 < len(f.Pix); i += step {
		sum[0] += float64(f.Pix[i])
		sum[1] += float64(f.Pix[i+1])
		sum[2] += float64(f.Pix[i+2])
		n++
	}
	if n == 0 {
		return sum
	}
	return [3]float64{sum[0] / float64(n), sum[1] / float64(n), sum[2] / float64(n)}
}

// SceneDetector flags abrupt global color shifts between consecutive frames.
type SceneDetector struct {
	threshold float64
	last      [3]float64
	seen      bool
}

// NewSceneDetector creates a detector; non-positive thresholds use the default.
func NewSceneDetector(threshold float64) *SceneDetector {
	if threshold <= 0 {
		threshold = DefaultSceneCutThreshold
	}
	return &SceneDetector{threshold: threshold}
}

// Observe records mean and reports whether it is a cut from the previous one.
// The first observation never cuts.
func (d *SceneDetector) Observe(mean [3]float64) bool {
	if !d.seen {
		d.last, d.seen = mean, true
		return false
	}
	dist := math.Sqrt(sq(mean[0]-d.last[0]) + sq(mean[1]-d.last[1]) + sq(mean[2]-d.last[2]))
	d.last = mean
	return dist > d.threshold
}

// Reset forgets the previous mean.
func (d *SceneDetector) Reset() {
	d.seen = false
	d.last = [3]float64{}
}

func sq(v float64) float64 { return v * v }
