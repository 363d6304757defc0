package server

import (
	"encoding/binary"
	"strconv"
	"time"

	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// ParseFrame decodes a binary WebSocket message: big-endian uint32 width,
// uint32 height and int64 capture time in unix milliseconds, followed by
// width*height RGBA bytes.
func ParseFrame(data []byte) (*frame.Frame, time.Time, error) {
	if len(data) < FrameHeaderSize {
		return nil, time.Time{}, apperrors.New(apperrors.FrameInvalid, "short frame header")
	}
	w := binary.BigEndian.Uint32(data[0:4])
	h := binary.BigEndian.Uint32(data[4:8])
	ts := int64(binary.BigEndian.Uint64(data[8:16]))

	if w == 0 || h == 0 || w > MaxFrameDimension || h > MaxFrameDimension {
		return nil, time.Time{}, apperrors.New(apperrors.FrameInvalid, "frame dimensions out of range").
			WithMetadata("width", strconv.FormatUint(uint64(w), 10)).
			WithMetadata("height", strconv.FormatUint(uint64(h), 10))
	}
	pix := data[FrameHeaderSize:]
	if want := int(w) * int(h) * frame.Channels; len(pix) != want {
		return nil, time.Time{}, apperrors.Newf(apperrors.FrameInvalid, "frame has %d pixel bytes, want %d", len(pix), want)
	}
	f, err := frame.New(pix, int(w), int(h))
	if err != nil {
		return nil, time.Time{}, err
	}
	return f, time.UnixMilli(ts), nil
}
