package analysis

import (
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/composition"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// Settings are the host-controlled knobs read on every Analyze call.
type Settings struct {
	SaturationCutoff float64                    `json:"saturation_cutoff"`
	IncludeNeutrals  bool                       `json:"include_neutrals"`
	Aspect           frame.AspectRatio          `json:"aspect"`
	GoldenHUD        bool                       `json:"golden_hud"`
	Saliency         composition.SaliencyConfig `json:"saliency"`
	TrackByColor     bool                       `json:"track_by_color"`
	ScoreMode        ScoreMode                  `json:"score_mode"`
	// MilestoneMuted suppresses perfect-score events; scoring is unaffected.
	MilestoneMuted bool `json:"milestone_muted"`
}

// DefaultSettings matches the live defaults: 0.12 cutoff, neutrals excluded,
// native aspect, golden HUD off and one score update per second.
func DefaultSettings() Settings {
	return Settings{
		SaturationCutoff: palette.DefaultSaturationCutoff,
		Aspect:           frame.AspectNative,
		Saliency:         composition.DefaultSaliency(),
		ScoreMode:        ScoreModeSecond,
	}
}

// Clamp forces every field into range. The pipeline expects clamped settings.
func (s Settings) Clamp() Settings {
	if s.SaturationCutoff < 0 {
		s.SaturationCutoff = 0
	}
	if s.SaturationCutoff > palette.MaxSaturationCutoff {
		s.SaturationCutoff = palette.MaxSaturationCutoff
	}
	if a, ok := frame.ParseAspectRatio(string(s.Aspect)); ok {
		s.Aspect = a
	} else {
		s.Aspect = frame.AspectNative
	}
	s.Saliency = s.Saliency.Clamp()
	if s.ScoreMode != ScoreModeFrame {
		s.ScoreMode = ScoreModeSecond
	}
	return s
}

// filter returns the pixel filter config. Including neutrals overrides the cutoff.
func (s Settings) filter() palette.FilterConfig {
	if s.IncludeNeutrals {
		return palette.FilterConfig{MinSaturation: 0, IncludeNeutrals: true}
	}
	return palette.FilterConfig{MinSaturation: s.SaturationCutoff}
}

// resets reports whether moving from s to next must clear temporal state.
func (s Settings) resets(next Settings) bool {
	return s.SaturationCutoff != next.SaturationCutoff || s.IncludeNeutrals != next.IncludeNeutrals
}
