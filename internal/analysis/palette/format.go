package palette

import (
	"fmt"
	"math"
	"strings"
)

// OKLCH is a perceptual lightness/chroma/hue triple.
type OKLCH struct {
	L float64 `json:"l"`
	C float64 `json:"c"`
	H float64 `json:"h"`
}

func (o OKLCH) String() string {
	return fmt.Sprintf("OKLCH(%.2f %.2f %.1f)", o.L, o.C, o.H)
}

// Entry describes one palette color in the formats the host displays.
type Entry struct {
	Hex   string   `json:"hex"`
	RGB   [3]uint8 `json:"rgb"`
	OKLCH OKLCH    `json:"oklch"`
}

// NewEntry formats rgb.
func NewEntry(rgb [3]uint8) Entry {
	return Entry{Hex: Hex(rgb), RGB: rgb, OKLCH: ToOKLCH(rgb)}
}

// Hex returns an upper-case #RRGGBB string.
func Hex(rgb [3]uint8) string {
	return strings.ToUpper(toColorful(rgb[0], rgb[1], rgb[2]).Hex())
}

// FormatRGB returns "RGB(r, g, b)".
func FormatRGB(rgb [3]uint8) string {
	return fmt.Sprintf("RGB(%d, %d, %d)", rgb[0], rgb[1], rgb[2])
}

// ToOKLCH converts sRGB to OKLCH via linear RGB and the OKLab LMS matrices.
func ToOKLCH(rgb [3]uint8) OKLCH {
	r, g, b := toColorful(rgb[0], rgb[1], rgb[2]).LinearRgb()

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	okL := 0.2104542553*l + 0.7936177850*m - 0.0040720468*s
	okA := 1.9779984951*l - 2.4285922050*m + 0.4505937099*s
	okB := 0.0259040371*l + 0.7827717662*m - 0.8086757660*s

	h := math.Atan2(okB, okA) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return OKLCH{L: okL, C: math.Hypot(okA, okB), H: h}
}

// ExportText renders entries one per line for copying into design tools.
func ExportText(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("Color %d: %s | %s | %s", i+1, e.Hex, FormatRGB(e.RGB), e.OKLCH))
	}
	return strings.Join(lines, "\n")
}
