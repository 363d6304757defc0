package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// PixelSample is one eligible pixel's RGB triple.
type PixelSample [3]uint8

// FilterConfig selects which pixels take part in clustering.
type FilterConfig struct {
	MinSaturation   float64 // 0 disables the saturation test
	IncludeNeutrals bool
}

// Filter samples every SampleStride-th pixel of f and keeps those that are
// bright enough and, unless neutrals are included, saturated enough.
// An empty result means the frame carries no analysable color.
func Filter(f *frame.Frame, cfg FilterConfig) []PixelSample {
	step := SampleStride * frame.Channels
	out := make([]PixelSample, 0, len(f.Pix)/step+1)
	for i := 0; i+2 < len(f.Pix); i += step {
		r, g, b := f.Pix[i], f.Pix[i+1], f.Pix[i+2]
		_, s, v := hsv(r, g, b)
		if v < MinValue {
			continue
		}
		if cfg.IncludeNeutrals || s >= cfg.MinSaturation {
			out = append(out, PixelSample{r, g, b})
		}
	}
	return out
}

func hsv(r, g, b uint8) (h, s, v float64) {
	return toColorful(r, g, b).Hsv()
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
