package composition

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/floats"
)

// Image renders the map as grayscale, scaled so the maximum is white.
func (m Map) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	if len(m.Values) == 0 {
		return img
	}
	peak := floats.Max(m.Values)
	if peak <= 0 {
		return img
	}
	for p, v := range m.Values {
		img.Pix[p] = uint8(clamp(v/peak*255+0.5, 0, 255))
	}
	return img
}

// Overlay draws the focal point as a small white cross onto img.
func (fp FocalPoint) Overlay(img *image.Gray) {
	x, y := int(fp.X+0.5), int(fp.Y+0.5)
	b := img.Bounds()
	for d := -3; d <= 3; d++ {
		for _, pt := range [2]image.Point{{x + d, y}, {x, y + d}} {
			if pt.In(b) {
				img.SetGray(pt.X, pt.Y, color.Gray{Y: 255})
			}
		}
	}
}
