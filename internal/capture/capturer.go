// Package capture provides frame sources for the capture loop
package capture

import (
	"context"
	"crypto/md5"
	"os"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

// Capturer produces encoded frames with change detection
type Capturer interface {
	// Capture returns the next frame. changed is false when the bytes match
	// the previous frame, in which case data is nil.
	Capture(ctx context.Context) (data []byte, changed bool, err error)
	Close()
}

// backend implements source-specific raw capture
type backend interface {
	captureRaw(ctx context.Context) ([]byte, error)
	cleanup()
}

// baseCapturer provides shared hash-based change detection
type baseCapturer struct {
	backend
	lastHash [16]byte
	tempDir  string
}

func newBase(b backend, tempDir string) *baseCapturer {
	return &baseCapturer{backend: b, tempDir: tempDir}
}

func (c *baseCapturer) Capture(ctx context.Context) ([]byte, bool, error) {
	data, err := c.captureRaw(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, apperrors.New(apperrors.CaptureFailed, "empty capture")
	}
	hash := md5.Sum(data[:min(len(data), HashPrefixBytes)])
	if hash == c.lastHash {
		return nil, false, nil
	}
	c.lastHash = hash
	return data, true, nil
}

func (c *baseCapturer) Close() {
	c.cleanup()
	if c.tempDir != "" {
		os.RemoveAll(c.tempDir)
	}
}

// New returns a capturer for source: SourceScreen for the primary display,
// otherwise a directory of still images.
func New(source string) (Capturer, error) {
	if source == SourceScreen {
		return NewScreen()
	}
	return NewDir(source)
}
