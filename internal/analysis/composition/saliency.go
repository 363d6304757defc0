package composition

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// SaliencyConfig tunes the saturation bias and the kept quantile.
type SaliencyConfig struct {
	Beta     float64 `json:"beta"`     // saturation weight, 0..1
	Gamma    float64 `json:"gamma"`    // saturation curve exponent, 0..2
	Quantile float64 `json:"quantile"` // percent of the most salient pixels kept, 0..100
}

// DefaultSaliency returns β=0, γ=1, q=5.
func DefaultSaliency() SaliencyConfig {
	return SaliencyConfig{Beta: DefaultBeta, Gamma: DefaultGamma, Quantile: DefaultQuantile}
}

// Clamp forces every field into its valid range.
func (c SaliencyConfig) Clamp() SaliencyConfig {
	c.Beta = clamp(c.Beta, 0, 1)
	c.Gamma = clamp(c.Gamma, 0, MaxGamma)
	if c.Quantile <= 0 {
		c.Quantile = DefaultQuantile
	}
	c.Quantile = clamp(c.Quantile, 0, 100)
	return c
}

// Map is a dense per-pixel saliency estimate.
type Map struct {
	Values []float64
	Width  int
	Height int
}

// At returns the saliency at (x, y).
func (m Map) At(x, y int) float64 { return m.Values[y*m.Width+x] }

// EstimateSaliency builds the saliency map of f and scores its weighted
// centroid against the golden-ratio points. The outer one-pixel ring has no
// full neighborhood and never contributes to the centroid.
func EstimateSaliency(f *frame.Frame, cfg SaliencyConfig) (Map, FocalPoint) {
	cfg = cfg.Clamp()
	w, h := f.Width, f.Height
	n := w * h

	lum := make([]float64, n)
	bias := make([]float64, n)
	for p := 0; p < n; p++ {
		i := p * frame.Channels
		r, g, b := float64(f.Pix[i]), float64(f.Pix[i+1]), float64(f.Pix[i+2])
		lum[p] = 0.2126*r + 0.7152*g + 0.0722*b
		bias[p] = (1 - cfg.Beta) + cfg.Beta*math.Pow(saturation(r, g, b), cfg.Gamma)
	}

	contrast := make([]float64, n)
	edge := make([]float64, n)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p := y*w + x
			sum := 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sum += lum[p+dy*w+dx]
				}
			}
			contrast[p] = math.Abs(lum[p] - sum/9)

			gx := -lum[p-w-1] - 2*lum[p-1] - lum[p+w-1] + lum[p-w+1] + 2*lum[p+1] + lum[p+w+1]
			gy := -lum[p-w-1] - 2*lum[p-w] - lum[p-w+1] + lum[p+w-1] + 2*lum[p+w] + lum[p+w+1]
			edge[p] = math.Hypot(gx, gy)
		}
	}

	maxC := math.Max(floats.Max(contrast), minNorm)
	maxE := math.Max(floats.Max(edge), minNorm)

	m := Map{Values: make([]float64, n), Width: w, Height: h}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p := y*w + x
			m.Values[p] = bias[p] * (0.5 + 0.5*contrast[p]/maxC) * (0.5 + 0.5*edge[p]/maxE)
		}
	}

	cx, cy, ok := m.Centroid(cfg.Quantile)
	if !ok {
		return m, FocalPoint{X: float64(w) / 2, Y: float64(h) / 2, Corner: CornerNone, Tag: TagFail}
	}
	return m, ScoreGolden(cx, cy, w, h)
}

// Centroid returns the saliency-weighted centroid of the top q percent of the
// map. ok is false when no pixel with positive saliency clears the cutoff.
func (m Map) Centroid(q float64) (cx, cy float64, ok bool) {
	if len(m.Values) == 0 {
		return 0, 0, false
	}
	cutoff := m.cutoff(q)

	var sum, sx, sy float64
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := m.Values[y*m.Width+x]
			if v <= 0 || v < cutoff {
				continue
			}
			sum += v
			sx += float64(x) * v
			sy += float64(y) * v
		}
	}
	if sum == 0 {
		return 0, 0, false
	}
	return sx / sum, sy / sum, true
}

// cutoff is the value at rank floor(q/100*n) in descending order (1-based).
func (m Map) cutoff(q float64) float64 {
	asc := slices.Clone(m.Values)
	slices.Sort(asc)
	n := len(asc)
	rank := max(0, int(math.Floor(q/100*float64(n)))-1)
	return asc[n-1-rank]
}

// saturation is the HSV saturation of 0-255 channels.
func saturation(r, g, b float64) float64 {
	hi := max(r, g, b)
	if hi == 0 {
		return 0
	}
	return (hi - min(r, g, b)) / hi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
