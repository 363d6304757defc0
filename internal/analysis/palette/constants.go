// Package palette extracts dominant colors from frames
package palette

// Pixel filter constants
const (
	// Sample every Nth pixel (12 bytes of RGBA)
	SampleStride = 3

	// Pixels darker than this HSV value are never eligible
	MinValue = 0.08

	// Upper bound for the saturation cutoff
	MaxSaturationCutoff = 0.99

	// Default saturation cutoff when neutrals are excluded
	DefaultSaturationCutoff = 0.12
)

// Clustering constants
const (
	// Live analysis clusters and Lloyd passes
	LiveClusters   = 3
	LiveIterations = 7

	// One-shot theme derivation clusters and Lloyd passes
	ThemeClusters   = 4
	ThemeIterations = 8
)

// Theme derivation constants
const (
	ThemeWidth       = 128
	ThemeMinHeight   = 64
	ThemeSampleEvery = 4   // pixels (16 bytes)
	ThemeMinAlpha    = 200 // skip mostly transparent pixels

	// Secondary must differ from primary by more than this luminance
	ThemeSecondaryLumGap = 20
)
