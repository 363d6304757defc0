// Package orchestrator wires sessions, the capture loop and shared caches
package orchestrator

import "time"

// Orchestrator configuration constants
const (
	// Result store configuration
	ResultMaxEntries  = 30
	ResultEventBuffer = 100

	// How often idle WebSocket sessions are dropped
	SessionCleanupInterval = time.Minute

	// CaptureState when no capture source is configured
	CaptureDisabled = "disabled"
)
