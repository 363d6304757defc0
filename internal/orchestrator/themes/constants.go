// Package themes derives color themes from uploaded stills, cached by
// perceptual hash and region colors
package themes

// Theme cache constants
const (
	// Number of themes kept before the oldest is evicted
	DefaultCapacity = 32

	// Hamming distance at which two stills count as the same image
	MaxHashDistance = 4

	// Side of the region grid compared alongside the hash
	SignatureGrid = 4

	// CIELAB distance, in go-colorful units, at which two regions still match
	MaxColorDistance = 0.05
)
