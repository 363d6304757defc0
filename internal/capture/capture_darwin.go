//go:build darwin

package capture

func screenBackend(tempDir string) (backend, error) {
	// -x: no sound, -t png, -m: main display only
	return &commandBackend{
		tool:    "screencapture",
		args:    func(out string) []string { return []string{"-x", "-t", "png", "-m", out} },
		tempDir: tempDir,
	}, nil
}
