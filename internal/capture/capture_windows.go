//go:build windows

package capture

const psCapture = `Add-Type -AssemblyName System.Windows.Forms,System.Drawing;` +
	`$b=[System.Windows.Forms.Screen]::PrimaryScreen.Bounds;` +
	`$bmp=New-Object System.Drawing.Bitmap $b.Width,$b.Height;` +
	`$g=[System.Drawing.Graphics]::FromImage($bmp);` +
	`$g.CopyFromScreen($b.Location,[System.Drawing.Point]::Empty,$b.Size);` +
	`$bmp.Save($args[0],[System.Drawing.Imaging.ImageFormat]::Png)`

func screenBackend(tempDir string) (backend, error) {
	return &commandBackend{
		tool: "powershell",
		args: func(out string) []string {
			return []string{"-NoProfile", "-NonInteractive", "-Command", psCapture, out}
		},
		tempDir: tempDir,
	}, nil
}
