package capture

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

// dirBackend cycles through the still images in a directory, rescanning it
// each time the cycle wraps so new files are picked up.
type dirBackend struct {
	dir   string
	files []string
	next  int
}

// NewDir creates a capturer that replays images from dir in name order.
func NewDir(dir string) (Capturer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ConfigInvalid, "capture source not found").WithMetadata("source", dir)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.ConfigInvalid, "capture source is not a directory").WithMetadata("source", dir)
	}
	return newBase(&dirBackend{dir: dir}, ""), nil
}

func (d *dirBackend) captureRaw(_ context.Context) ([]byte, error) {
	if d.next >= len(d.files) {
		if err := d.scan(); err != nil {
			return nil, err
		}
	}
	path := d.files[d.next]
	d.next++

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CaptureFailed, "read frame").WithMetadata("path", path)
	}
	return data, nil
}

func (d *dirBackend) scan() error {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CaptureFailed, "list capture directory")
	}
	d.files = d.files[:0]
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		d.files = append(d.files, filepath.Join(d.dir, e.Name()))
	}
	slices.Sort(d.files)
	d.next = 0
	if len(d.files) == 0 {
		return apperrors.New(apperrors.CaptureFailed, "no images in capture directory").WithMetadata("dir", d.dir)
	}
	return nil
}

func (d *dirBackend) cleanup() {}
