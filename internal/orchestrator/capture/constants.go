// Package capture runs the capture-to-analysis loop
package capture

// Capture loop constants
const (
	// Session id used for results from the capture loop
	SessionID = "capture"

	// Lowest accepted capture rate in frames per second
	MinRate = 0.1
)
