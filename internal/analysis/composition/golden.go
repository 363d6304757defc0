package composition

import "math"

// Corner labels a golden-ratio power point.
type Corner string

const (
	CornerTopLeft     Corner = "tl"
	CornerBottomLeft  Corner = "bl"
	CornerTopRight    Corner = "tr"
	CornerBottomRight Corner = "br"
	CornerNone        Corner = ""
)

// FocalPoint is the salient centroid and its golden-ratio score.
type FocalPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Score  int     `json:"score"`
	Tag    Tag     `json:"tag"`
	Corner Corner  `json:"corner,omitempty"`
}

// PowerPoints returns the four golden-ratio anchors of a w x h frame in
// tl, bl, tr, br order.
func PowerPoints(w, h int) [4][2]float64 {
	fw, fh := float64(w), float64(h)
	return [4][2]float64{
		{fw / Phi, fh / Phi},
		{fw / Phi, fh - fh/Phi},
		{fw - fw/Phi, fh / Phi},
		{fw - fw/Phi, fh - fh/Phi},
	}
}

var cornerOrder = [4]Corner{CornerTopLeft, CornerBottomLeft, CornerTopRight, CornerBottomRight}

// ScoreGolden scores (cx, cy) by its distance to the nearest power point.
func ScoreGolden(cx, cy float64, w, h int) FocalPoint {
	best, bestD2 := 0, math.Inf(1)
	for i, pt := range PowerPoints(w, h) {
		dx, dy := cx-pt[0], cy-pt[1]
		if d2 := dx*dx + dy*dy; d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}

	diag := math.Hypot(float64(w), float64(h))
	score := 0
	if diag > 0 {
		raw := math.Round(100 * (1 - math.Sqrt(bestD2)/(GoldenFalloff*diag)))
		score = int(clamp(raw, 0, 100))
	}
	return FocalPoint{X: cx, Y: cy, Score: score, Tag: TagFor(score), Corner: cornerOrder[best]}
}
