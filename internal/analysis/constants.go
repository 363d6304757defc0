// Package analysis runs the per-frame color and composition pipeline
package analysis

import "time"

// ScoreMode controls how often published scores change.
type ScoreMode string

const (
	// ScoreModeFrame publishes every analysed frame
	ScoreModeFrame ScoreMode = "frame"

	// ScoreModeSecond publishes at most once per ThrottleInterval
	ScoreModeSecond ScoreMode = "second"
)

// Throttle interval for ScoreModeSecond
const ThrottleInterval = time.Second
