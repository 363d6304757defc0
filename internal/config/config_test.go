package config

import (
	"testing"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

var envVars = []string{
	"HTTP_ADDR", "GRPC_ADDR", "ALLOWED_ORIGINS", "DOWNSCALE_WIDTH", "SAT_CUTOFF",
	"INCLUDE_NEUTRALS", "EMA_ALPHA", "SCENE_CUT_THRESHOLD", "SALIENCY_BETA",
	"SALIENCY_GAMMA", "SALIENCY_QUANTILE", "GOLDEN_HUD", "ASPECT_RATIO",
	"SCORE_UPDATE_MODE", "TRACK_BY_COLOR", "CAPTURE_SOURCE", "CAPTURE_RATE",
	"MAX_FRAME_RATE", "MILESTONE_COOLDOWN", "MILESTONE_MUTED", "SESSION_IDLE_TIMEOUT",
}

func clearEnv(t *testing.T) {
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.HTTPAddr != ":8000" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8000")
	}
	if cfg.GRPCAddr != "" {
		t.Errorf("GRPCAddr = %q, want empty", cfg.GRPCAddr)
	}
	if cfg.DownscaleWidth != 320 {
		t.Errorf("DownscaleWidth = %d, want 320", cfg.DownscaleWidth)
	}
	if cfg.SatCutoff != 0.12 {
		t.Errorf("SatCutoff = %f, want 0.12", cfg.SatCutoff)
	}
	if cfg.IncludeNeutrals {
		t.Error("IncludeNeutrals should default to false")
	}
	if cfg.EMAAlpha != 0.35 {
		t.Errorf("EMAAlpha = %f, want 0.35", cfg.EMAAlpha)
	}
	if cfg.SceneCutThreshold != 12 {
		t.Errorf("SceneCutThreshold = %f, want 12", cfg.SceneCutThreshold)
	}
	if cfg.SaliencyQuantile != 5 {
		t.Errorf("SaliencyQuantile = %f, want 5", cfg.SaliencyQuantile)
	}
	if cfg.ScoreUpdateMode != "second" {
		t.Errorf("ScoreUpdateMode = %q, want second", cfg.ScoreUpdateMode)
	}
	if cfg.CaptureSource != "" {
		t.Errorf("CaptureSource = %q, want empty", cfg.CaptureSource)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute {
		t.Errorf("SessionIdleTimeout = %v, want 5m", cfg.SessionIdleTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 defaults", cfg.AllowedOrigins)
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("GRPC_ADDR", ":50051")
	t.Setenv("SAT_CUTOFF", "0.3")
	t.Setenv("INCLUDE_NEUTRALS", "1")
	t.Setenv("GOLDEN_HUD", "true")
	t.Setenv("ASPECT_RATIO", "4:5")
	t.Setenv("SCORE_UPDATE_MODE", "frame")
	t.Setenv("CAPTURE_SOURCE", "/tmp/frames")
	t.Setenv("CAPTURE_RATE", "5")
	t.Setenv("MILESTONE_MUTED", "true")
	t.Setenv("ALLOWED_ORIGINS", "example.com, ,app.example.com")

	cfg := Load()

	if cfg.HTTPAddr != ":9000" || cfg.GRPCAddr != ":50051" {
		t.Errorf("addrs = %q %q", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.SatCutoff != 0.3 || !cfg.IncludeNeutrals || !cfg.GoldenHUD {
		t.Errorf("analysis env not applied: %+v", cfg)
	}
	if cfg.CaptureSource != "/tmp/frames" || cfg.CaptureRate != 5 {
		t.Errorf("capture = %q %f", cfg.CaptureSource, cfg.CaptureRate)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "app.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}

	s := cfg.Settings()
	if s.Aspect != frame.Aspect4x5 || s.ScoreMode != analysis.ScoreModeFrame || !s.MilestoneMuted {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOWNSCALE_WIDTH", "wide")
	t.Setenv("SAT_CUTOFF", "lots")

	cfg := Load()
	if cfg.DownscaleWidth != 320 {
		t.Errorf("DownscaleWidth = %d, want default", cfg.DownscaleWidth)
	}
	if cfg.SatCutoff != 0.12 {
		t.Errorf("SatCutoff = %f, want default", cfg.SatCutoff)
	}
}

func TestSettingsClamped(t *testing.T) {
	cfg := &Config{SatCutoff: 5, SaliencyBeta: -1, SaliencyGamma: 9, AspectRatio: "wide"}

	s := cfg.Settings()
	if s.SaturationCutoff != 0.99 {
		t.Errorf("SaturationCutoff = %f, want 0.99", s.SaturationCutoff)
	}
	if s.Saliency.Beta != 0 || s.Saliency.Gamma != 2 {
		t.Errorf("Saliency = %+v", s.Saliency)
	}
	if s.Aspect != frame.AspectNative {
		t.Errorf("Aspect = %q, want native", s.Aspect)
	}

	if opts := (&Config{EMAAlpha: 3}).PipelineOptions(); opts.Alpha != 0.35 {
		t.Errorf("Alpha = %f, want default", opts.Alpha)
	}
	if w := (&Config{}).Width(); w != 320 {
		t.Errorf("Width() = %d, want 320", w)
	}
}
