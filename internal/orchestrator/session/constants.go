// Package session owns the per-stream analysis state
package session

import "time"

// Session constants
const (
	// Sessions idle longer than this are dropped by CleanupStale
	DefaultStaleTimeout = 5 * time.Minute

	// Minimum gap between two perfect-score events
	DefaultMilestoneCooldown = 5 * time.Second

	// Session id length in random bytes
	idBytes = 8
)
