// Package config handles service configuration
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/composition"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/temporal"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

type Config struct {
	HTTPAddr       string
	GRPCAddr       string // empty disables the gRPC health server
	AllowedOrigins []string

	// Analysis defaults for new sessions
	DownscaleWidth    int
	SatCutoff         float64
	IncludeNeutrals   bool
	EMAAlpha          float64
	SceneCutThreshold float64
	SaliencyBeta      float64
	SaliencyGamma     float64
	SaliencyQuantile  float64
	GoldenHUD         bool
	AspectRatio       string
	ScoreUpdateMode   string
	TrackByColor      bool

	// Capture loop; empty source disables it
	CaptureSource string
	CaptureRate   float64 // Hz

	MaxFrameRate       float64 // per WebSocket connection, Hz
	MilestoneCooldown  float64 // seconds
	MilestoneMuted     bool
	SessionIdleTimeout time.Duration
}

func Load() *Config {
	return &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8000"),
		GRPCAddr:           getEnv("GRPC_ADDR", ""),
		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", []string{"localhost:*", "127.0.0.1:*"}),
		DownscaleWidth:     getEnvInt("DOWNSCALE_WIDTH", frame.DefaultWidth),
		SatCutoff:          getEnvFloat("SAT_CUTOFF", 0.12),
		IncludeNeutrals:    getEnvBool("INCLUDE_NEUTRALS", false),
		EMAAlpha:           getEnvFloat("EMA_ALPHA", temporal.DefaultAlpha),
		SceneCutThreshold:  getEnvFloat("SCENE_CUT_THRESHOLD", temporal.DefaultSceneCutThreshold),
		SaliencyBeta:       getEnvFloat("SALIENCY_BETA", composition.DefaultBeta),
		SaliencyGamma:      getEnvFloat("SALIENCY_GAMMA", composition.DefaultGamma),
		SaliencyQuantile:   getEnvFloat("SALIENCY_QUANTILE", composition.DefaultQuantile),
		GoldenHUD:          getEnvBool("GOLDEN_HUD", false),
		AspectRatio:        getEnv("ASPECT_RATIO", string(frame.AspectNative)),
		ScoreUpdateMode:    getEnv("SCORE_UPDATE_MODE", string(analysis.ScoreModeSecond)),
		TrackByColor:       getEnvBool("TRACK_BY_COLOR", false),
		CaptureSource:      getEnv("CAPTURE_SOURCE", ""),
		CaptureRate:        getEnvFloat("CAPTURE_RATE", 2.0),
		MaxFrameRate:       getEnvFloat("MAX_FRAME_RATE", 30.0),
		MilestoneCooldown:  getEnvFloat("MILESTONE_COOLDOWN", 5.0),
		MilestoneMuted:     getEnvBool("MILESTONE_MUTED", false),
		SessionIdleTimeout: time.Duration(getEnvFloat("SESSION_IDLE_TIMEOUT", 300) * float64(time.Second)),
	}
}

// Settings returns the clamped default session settings.
func (c *Config) Settings() analysis.Settings {
	return analysis.Settings{
		SaturationCutoff: c.SatCutoff,
		IncludeNeutrals:  c.IncludeNeutrals,
		Aspect:           frame.AspectRatio(c.AspectRatio),
		GoldenHUD:        c.GoldenHUD,
		Saliency: composition.SaliencyConfig{
			Beta:     c.SaliencyBeta,
			Gamma:    c.SaliencyGamma,
			Quantile: c.SaliencyQuantile,
		},
		TrackByColor:   c.TrackByColor,
		ScoreMode:      analysis.ScoreMode(c.ScoreUpdateMode),
		MilestoneMuted: c.MilestoneMuted,
	}.Clamp()
}

// PipelineOptions returns the smoothing options for new pipelines.
func (c *Config) PipelineOptions() analysis.Options {
	alpha := c.EMAAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = temporal.DefaultAlpha
	}
	return analysis.Options{
		Alpha:             alpha,
		SceneCutThreshold: c.SceneCutThreshold,
		Hysteresis:        temporal.DefaultHysteresis(),
	}
}

// Width returns the analysis downscale width, falling back to the default.
func (c *Config) Width() int {
	if c.DownscaleWidth <= 0 {
		return frame.DefaultWidth
	}
	return c.DownscaleWidth
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		return result
	}
	return def
}
