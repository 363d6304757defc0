package frame

// Frame constants
const (
	// Analysis width in pixels; height follows the source aspect ratio
	DefaultWidth = 320

	// Bytes per RGBA pixel
	Channels = 4
)
