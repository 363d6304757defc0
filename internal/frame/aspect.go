package frame

import (
	"image"
	"math"
)

// AspectRatio names a crop preset for the analysed region.
type AspectRatio string

const (
	AspectNative AspectRatio = "native"
	Aspect16x9   AspectRatio = "16:9"
	Aspect9x16   AspectRatio = "9:16"
	Aspect4x3    AspectRatio = "4:3"
	Aspect1x1    AspectRatio = "1:1"
	Aspect4x5    AspectRatio = "4:5"
	Aspect235x1  AspectRatio = "2.35:1"
	Aspect3x2    AspectRatio = "3:2"
)

var aspectRatios = map[AspectRatio]float64{
	Aspect16x9:  16.0 / 9.0,
	Aspect9x16:  9.0 / 16.0,
	Aspect4x3:   4.0 / 3.0,
	Aspect1x1:   1,
	Aspect4x5:   4.0 / 5.0,
	Aspect235x1: 2.35,
	Aspect3x2:   3.0 / 2.0,
}

// ParseAspectRatio accepts a preset name; unknown names report false.
func ParseAspectRatio(s string) (AspectRatio, bool) {
	a := AspectRatio(s)
	if a == AspectNative || a == "" {
		return AspectNative, true
	}
	_, ok := aspectRatios[a]
	return a, ok
}

// CropRect returns the centered rectangle of a w x h frame matching ratio.
// Native or unknown ratios return the full frame.
func CropRect(w, h int, ratio AspectRatio) image.Rectangle {
	full := image.Rect(0, 0, w, h)
	target, ok := aspectRatios[ratio]
	if !ok || w <= 0 || h <= 0 {
		return full
	}

	fw, fh := float64(w), float64(h)
	var cw, ch, cx, cy float64
	if target > fw/fh {
		// letterbox: trim top and bottom
		cw, ch = fw, fw/target
		cy = (fh - ch) / 2
	} else {
		// pillarbox: trim left and right
		cw, ch = fh*target, fh
		cx = (fw - cw) / 2
	}

	x0, y0 := int(math.Round(cx)), int(math.Round(cy))
	r := image.Rect(x0, y0, x0+int(math.Round(cw)), y0+int(math.Round(ch)))
	return r.Intersect(full)
}
