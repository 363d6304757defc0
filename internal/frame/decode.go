package frame

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
)

// codec pairs a format name with the header it is recognized by. '?' in
// magic matches any byte.
type codec struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

// TGA has no magic number, so it is tried only when nothing here matches.
// The package registers itself with image.RegisterFormat under an empty
// magic, which would shadow every other format in image.Decode; decoding
// goes through this table instead.
var codecs = []codec{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"gif", "GIF8?a", gif.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode},
	{"tiff", "II*\x00", tiff.Decode},
	{"tiff", "MM\x00*", tiff.Decode},
}

func matchMagic(magic string, data []byte) bool {
	if len(data) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != data[i] {
			return false
		}
	}
	return true
}

// Decode decodes an encoded still image.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", apperrors.New(apperrors.ImageDecodeFailed, "empty image data")
	}
	for _, c := range codecs {
		if !matchMagic(c.magic, data) {
			continue
		}
		img, err := c.decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", apperrors.Wrapf(err, apperrors.ImageDecodeFailed, "decode %s", c.name)
		}
		return img, c.name, nil
	}
	img, err := tga.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ImageDecodeFailed, "decode image: unknown format")
	}
	return img, "tga", nil
}

// DecodeFrame decodes data and downsamples it to width.
func DecodeFrame(data []byte, width int) (*Frame, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromImage(img, width), nil
}
