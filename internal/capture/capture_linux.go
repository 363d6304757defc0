//go:build linux

package capture

import (
	"os/exec"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

func screenBackend(tempDir string) (backend, error) {
	// Try gnome-screenshot first, fall back to scrot then grim (wayland)
	switch {
	case hasTool("gnome-screenshot"):
		return &commandBackend{tool: "gnome-screenshot", args: func(out string) []string { return []string{"-f", out} }, tempDir: tempDir}, nil
	case hasTool("scrot"):
		return &commandBackend{tool: "scrot", args: func(out string) []string { return []string{"-o", out} }, tempDir: tempDir}, nil
	case hasTool("grim"):
		return &commandBackend{tool: "grim", args: func(out string) []string { return []string{out} }, tempDir: tempDir}, nil
	}
	return nil, apperrors.New(apperrors.CaptureFailed, "no screenshot tool found (install gnome-screenshot, scrot or grim)")
}

func hasTool(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
