package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/composition"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/milestone"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/syncx"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// Config for new sessions
type Config struct {
	Options           analysis.Options
	Defaults          analysis.Settings
	MilestoneCooldown time.Duration
}

// Outcome is the result of processing one frame.
type Outcome struct {
	Result analysis.Result
	// Publish is false when the score throttle holds this result back.
	Publish bool
	// Perfect is set when this published result is a new perfect score.
	Perfect bool
}

// Session serializes frames of one stream through its own pipeline.
type Session struct {
	id        string
	settings  *syncx.Guard[analysis.Settings]
	throttle  *analysis.Throttle
	milestone *milestone.Detector

	mu        sync.Mutex
	pipeline  *analysis.Pipeline
	published analysis.Result
	hasResult bool
	lastSeen  time.Time
}

// New creates a session with empty temporal state
func New(id string, cfg Config) *Session {
	if cfg.MilestoneCooldown <= 0 {
		cfg.MilestoneCooldown = DefaultMilestoneCooldown
	}
	return &Session{
		id:        id,
		settings:  syncx.NewGuard(cfg.Defaults.Clamp()),
		throttle:  analysis.NewThrottle(analysis.ThrottleInterval),
		milestone: milestone.NewDetector(cfg.MilestoneCooldown, !cfg.Defaults.MilestoneMuted),
		pipeline:  analysis.NewPipeline(cfg.Options),
		lastSeen:  time.Now(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Process analyses f captured at ts. Frames must arrive in timestamp order;
// older frames are rejected and leave the state untouched.
func (s *Session) Process(ctx context.Context, f *frame.Frame, ts time.Time) (Outcome, error) {
	ctx, span := trace.StartSpan(ctx, "analyze_frame")
	defer span.End()
	span.SetAttr("session", s.id)

	settings := s.settings.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	res, err := s.pipeline.Analyze(f, settings, ts)
	if err != nil {
		span.SetAttr("error", err.Error())
		trace.Logger(ctx).Warn("frame rejected", "session", s.id, "error", err)
		return Outcome{}, err
	}
	span.SetAttr("score", res.Score.Score)
	span.SetAttr("skipped", res.Skipped)
	span.SetAttr("scene_cut", res.SceneCut)

	out := Outcome{Result: res}
	if res.Skipped {
		return out, nil
	}
	if out.Publish = s.throttle.Allow(settings.ScoreMode, ts); out.Publish {
		s.milestone.SetEnabled(!settings.MilestoneMuted)
		out.Perfect = s.milestone.Check(ctx, res.Score.Score, ts)
		s.published, s.hasResult = res, true
	}
	if res.SceneCut {
		trace.Logger(ctx).Debug("scene cut", "session", s.id)
	}
	return out, nil
}

// Settings returns the current settings
func (s *Session) Settings() analysis.Settings { return s.settings.Load() }

// UpdateSettings clamps and applies next. Changing the saturation cutoff or
// neutrals toggle resets temporal state on the next frame; changing the score
// mode publishes the next frame immediately.
func (s *Session) UpdateSettings(next analysis.Settings) analysis.Settings {
	applied, _ := s.ModifySettings(func(v *analysis.Settings) error {
		*v = next
		return nil
	})
	return applied
}

// ModifySettings edits a copy of the current settings with fn and applies the
// clamped result atomically. When fn fails nothing changes.
func (s *Session) ModifySettings(fn func(*analysis.Settings) error) (analysis.Settings, error) {
	var fnErr error
	before, after := s.settings.Modify(func(v *analysis.Settings) {
		next := *v
		if fnErr = fn(&next); fnErr == nil {
			*v = next.Clamp()
		}
	})
	if fnErr != nil {
		return before, fnErr
	}
	if before.ScoreMode != after.ScoreMode {
		s.throttle.Force()
	}
	return after, nil
}

// Reset clears all temporal state so the next frame snaps immediately.
func (s *Session) Reset() {
	s.mu.Lock()
	s.pipeline.Reset()
	s.mu.Unlock()
	s.throttle.Force()
	s.milestone.Reset()
}

// Latest returns the last published result
func (s *Session) Latest() (analysis.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published, s.hasResult
}

// Palette returns the last published colors in export form
func (s *Session) Palette() []palette.Entry {
	res, ok := s.Latest()
	if !ok {
		return nil
	}
	return res.Palette
}

// Saliency returns the last saliency map and the focal point published with it.
func (s *Session) Saliency() (composition.Map, *composition.FocalPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.Saliency(), s.published.Focal
}

// LastSeen returns when the session last processed a frame
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// NewID returns a random session identifier
func NewID() string {
	b := make([]byte, idBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
