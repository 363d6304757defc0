// Package server provides HTTP and WebSocket handlers
package server

import "time"

// Server configuration constants
const (
	// Binary frame header: uint32 width, uint32 height, int64 timestamp ms
	FrameHeaderSize = 16

	// Largest accepted frame side in pixels
	MaxFrameDimension = 1920

	// WebSocket read limit, one full-size frame plus header
	MaxMessageBytes = MaxFrameDimension*MaxFrameDimension*4 + FrameHeaderSize

	// Results returned by /api/recent when n is not given
	DefaultRecentResults = 10

	// Largest still image accepted by the theme endpoint
	MaxUploadBytes = 16 << 20

	// Sliding window for per-connection frame rate limiting
	RateLimitWindow = time.Second

	// Timeout for a single WebSocket write
	WriteTimeout = 5 * time.Second
)

// Message types
const (
	TypeResult   = "result"
	TypePerfect  = "perfect"
	TypeError    = "error"
	TypeSettings = "settings"
	TypeReset    = "reset"
)
