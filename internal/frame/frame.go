// Package frame holds the downsampled RGBA buffers the analysis pipeline reads
package frame

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

// Frame is a non-premultiplied RGBA buffer, row-major, 4 bytes per pixel.
// Frames are treated as read-only once handed to the pipeline.
type Frame struct {
	Pix    []uint8
	Width  int
	Height int
}

// New validates the buffer shape and wraps it without copying.
func New(pix []uint8, width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, apperrors.Newf(apperrors.FrameInvalid, "frame dimensions must be positive, got %dx%d", width, height)
	}
	if want := width * height * Channels; len(pix) != want {
		return nil, apperrors.Newf(apperrors.FrameInvalid, "frame buffer has %d bytes, want %d", len(pix), want)
	}
	return &Frame{Pix: pix, Width: width, Height: height}, nil
}

// FromImage downsamples img to the given width, preserving aspect ratio.
// A non-positive width keeps the source size.
func FromImage(img image.Image, width int) *Frame {
	b := img.Bounds()
	if width <= 0 || width == b.Dx() {
		return wrap(toNRGBA(img))
	}
	height := int(math.Max(1, math.Round(float64(b.Dy())*float64(width)/float64(b.Dx()))))
	return Resize(img, width, height)
}

// Resize scales img to exactly width x height.
func Resize(img image.Image, width, height int) *Frame {
	b := img.Bounds()
	if width != b.Dx() || height != b.Dy() {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return wrap(toNRGBA(img))
}

func wrap(n *image.NRGBA) *Frame {
	return &Frame{Pix: n.Pix, Width: n.Rect.Dx(), Height: n.Rect.Dy()}
}

// Image exposes the buffer as an *image.NRGBA sharing the same pixels.
func (f *Frame) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Width * Channels,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Pixels returns the pixel count.
func (f *Frame) Pixels() int { return f.Width * f.Height }

// Crop copies the sub-rectangle r (clipped to the frame) into a new frame.
func (f *Frame) Crop(r image.Rectangle) *Frame {
	r = r.Intersect(image.Rect(0, 0, f.Width, f.Height))
	if r.Empty() || r == image.Rect(0, 0, f.Width, f.Height) {
		return f
	}
	w, h := r.Dx(), r.Dy()
	pix := make([]uint8, w*h*Channels)
	stride := f.Width * Channels
	for y := 0; y < h; y++ {
		src := (r.Min.Y+y)*stride + r.Min.X*Channels
		copy(pix[y*w*Channels:(y+1)*w*Channels], f.Pix[src:src+w*Channels])
	}
	return &Frame{Pix: pix, Width: w, Height: h}
}

// toNRGBA converts any image to a zero-origin NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*Channels {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}
