package capture

// Capture constants
const (
	// SourceScreen selects the platform screenshot backend
	SourceScreen = "screen"

	// Change detection hashes only this many leading bytes
	HashPrefixBytes = 4096

	tempDirPattern = "ratiolens-capture-*"
	screenshotName = "frame.png"
)

// imageExts are the still formats frame.Decode understands.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".webp": true, ".tga": true,
}
