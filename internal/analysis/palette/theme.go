package palette

import (
	"image"
	"math"
	"sort"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// Fixed theme tokens that do not depend on the image.
const (
	ThemeText      = "#EDEFF2"
	ThemeTextMuted = "#B8C2D6"
	ThemeBorder    = "rgba(255,255,255,0.10)"
	ThemeSurface   = "rgba(255,255,255,0.06)"
)

// Swatch is a theme cluster with the attributes used to pick roles.
type Swatch struct {
	Entry
	Count int     `json:"count"`
	Sat   float64 `json:"sat"`
	Val   float64 `json:"val"`
	Lum   float64 `json:"lum"`
}

// Theme is the color scheme derived from a still image.
type Theme struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary"`
	Accent    string   `json:"accent"`
	Text      string   `json:"text"`
	TextMuted string   `json:"textMuted"`
	Border    string   `json:"border"`
	Surface   string   `json:"surface"`
	Swatches  []Swatch `json:"swatches"`
}

// DeriveTheme clusters img into four colors and assigns theme roles:
// primary is the darkest swatch, accent the most vivid, secondary the most
// common swatch whose luminance is clearly apart from primary.
// ok is false when no pixel is opaque enough to sample.
func DeriveTheme(img image.Image, q *Quantizer) (Theme, bool) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Theme{}, false
	}
	h := int(math.Max(ThemeMinHeight, math.Round(float64(b.Dy())*ThemeWidth/float64(b.Dx()))))
	f := frame.Resize(img, ThemeWidth, h)

	samples := sampleOpaque(f)
	if len(samples) == 0 {
		return Theme{}, false
	}

	clusters := q.Quantize(samples, ThemeClusters, ThemeIterations)
	sw := make([]Swatch, len(clusters))
	for i, c := range clusters {
		rgb := c.RGB()
		_, s, v := hsv(rgb[0], rgb[1], rgb[2])
		sw[i] = Swatch{
			Entry: NewEntry(rgb),
			Count: c.Count,
			Sat:   s,
			Val:   v,
			Lum:   0.2126*float64(rgb[0]) + 0.7152*float64(rgb[1]) + 0.0722*float64(rgb[2]),
		}
	}
	sort.SliceStable(sw, func(a, b int) bool { return sw[a].Count > sw[b].Count })

	primary, accent := sw[0], sw[0]
	for _, s := range sw[1:] {
		if s.Lum < primary.Lum {
			primary = s
		}
		if s.Sat*s.Val > accent.Sat*accent.Val {
			accent = s
		}
	}
	secondary := sw[0]
	if len(sw) > 1 {
		secondary = sw[1]
	}
	for _, s := range sw {
		if math.Abs(s.Lum-primary.Lum) > ThemeSecondaryLumGap {
			secondary = s
			break
		}
	}

	return Theme{
		Primary:   primary.Hex,
		Secondary: secondary.Hex,
		Accent:    accent.Hex,
		Text:      ThemeText,
		TextMuted: ThemeTextMuted,
		Border:    ThemeBorder,
		Surface:   ThemeSurface,
		Swatches:  sw,
	}, true
}

func sampleOpaque(f *frame.Frame) []PixelSample {
	step := ThemeSampleEvery * frame.Channels
	out := make([]PixelSample, 0, len(f.Pix)/step+1)
	for i := 0; i+3 < len(f.Pix); i += step {
		if f.Pix[i+3] < ThemeMinAlpha {
			continue
		}
		out = append(out, PixelSample{f.Pix[i], f.Pix[i+1], f.Pix[i+2]})
	}
	return out
}
