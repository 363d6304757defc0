package resilience

import "time"

// Circuit breaker configuration constants
const (
	DefaultThreshold         = 5
	DefaultResetTimeout      = 30 * time.Second
	DefaultHalfOpenSuccesses = 3

	// Capture sources fail fast and recover quickly; a missing screenshot
	// tool should not be retried on every tick.
	CaptureThreshold         = 3
	CaptureResetTimeout      = 10 * time.Second
	CaptureHalfOpenSuccesses = 2
)

// Config holds circuit breaker settings.
type Config struct {
	Name              string        // used in log lines
	Threshold         int           // consecutive failures before opening
	ResetTimeout      time.Duration // wait before a half-open trial
	HalfOpenSuccesses int           // trial successes needed to close
}

// DefaultConfig returns general-purpose defaults.
func DefaultConfig() Config {
	return Config{
		Name:              "default",
		Threshold:         DefaultThreshold,
		ResetTimeout:      DefaultResetTimeout,
		HalfOpenSuccesses: DefaultHalfOpenSuccesses,
	}
}

// CaptureConfig returns settings for frame capture sources.
func CaptureConfig() Config {
	return Config{
		Name:              "capture",
		Threshold:         CaptureThreshold,
		ResetTimeout:      CaptureResetTimeout,
		HalfOpenSuccesses: CaptureHalfOpenSuccesses,
	}
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = DefaultResetTimeout
	}
	if c.HalfOpenSuccesses <= 0 {
		c.HalfOpenSuccesses = DefaultHalfOpenSuccesses
	}
	return c
}
