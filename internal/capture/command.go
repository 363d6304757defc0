package capture

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

// commandBackend captures by running a screenshot tool that writes to a file
type commandBackend struct {
	tool    string
	args    func(out string) []string
	tempDir string
}

func (c *commandBackend) captureRaw(ctx context.Context) ([]byte, error) {
	out := filepath.Join(c.tempDir, screenshotName)
	cmd := exec.CommandContext(ctx, c.tool, c.args(out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CaptureFailed, "screenshot command failed").
			WithMetadata("tool", c.tool).
			WithMetadata("stderr", stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CaptureFailed, "read screenshot")
	}
	os.Remove(out)
	return data, nil
}

func (c *commandBackend) cleanup() {}

// NewScreen creates a capturer for the primary display.
func NewScreen() (Capturer, error) {
	tmpDir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CaptureFailed, "create temp dir")
	}
	b, err := screenBackend(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, err
	}
	return newBase(b, tmpDir), nil
}
