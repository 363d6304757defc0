package analysis

import (
	"strconv"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/composition"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/temporal"
	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
)

// Options fix the pipeline's smoothing behaviour for its lifetime.
type Options struct {
	Alpha             float64
	SceneCutThreshold float64
	Hysteresis        temporal.HysteresisConfig
	// Quantizer overrides the random-seeded default, e.g. for deterministic tests.
	Quantizer *palette.Quantizer
}

// Result is the outcome of one Analyze call. It is never mutated afterwards.
type Result struct {
	Timestamp time.Time `json:"timestamp"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`

	// Skipped is set when no pixel was eligible; Proportions and Score then
	// carry the previous frame's values.
	Skipped  bool `json:"skipped"`
	SceneCut bool `json:"scene_cut"`

	Proportions temporal.Proportions `json:"proportions"`
	Measured    temporal.Proportions `json:"measured"`
	Score       composition.Score    `json:"score"`
	Palette     []palette.Entry      `json:"palette"`

	// Focal is nil unless the golden HUD is on.
	Focal *composition.FocalPoint `json:"focal,omitempty"`
}

// Pipeline holds the cross-frame state of one analysed stream. It is not safe
// for concurrent use; frames must be fed in timestamp order.
type Pipeline struct {
	quantizer  *palette.Quantizer
	scene      *temporal.SceneDetector
	stabilizer *temporal.Stabilizer

	settings   Settings
	configured bool
	last       time.Time
	cutPending bool
	primed     bool
	score      composition.Score
	measured   temporal.Proportions
	saliency   composition.Map
}

// NewPipeline creates a pipeline with empty temporal state.
func NewPipeline(opts Options) *Pipeline {
	q := opts.Quantizer
	if q == nil {
		q = palette.NewQuantizer(uint64(time.Now().UnixNano()))
	}
	return &Pipeline{
		quantizer:  q,
		scene:      temporal.NewSceneDetector(opts.SceneCutThreshold),
		stabilizer: temporal.NewStabilizer(temporal.Config{Alpha: opts.Alpha, Hysteresis: opts.Hysteresis}),
	}
}

// Analyze runs both branches over f, captured at now.
func (p *Pipeline) Analyze(f *frame.Frame, s Settings, now time.Time) (Result, error) {
	if f == nil || f.Pixels() == 0 {
		return Result{}, apperrors.New(apperrors.FrameInvalid, "empty frame")
	}
	if !p.last.IsZero() && now.Before(p.last) {
		return Result{}, apperrors.New(apperrors.FrameOutOfOrder, "frame older than last analysed frame").
			WithMetadata("timestamp", strconv.FormatInt(now.UnixMilli(), 10)).
			WithMetadata("last", strconv.FormatInt(p.last.UnixMilli(), 10))
	}
	p.last = now

	if p.configured && p.settings.resets(s) {
		p.Reset()
	}
	p.settings, p.configured = s, true

	region := f.Crop(frame.CropRect(f.Width, f.Height, s.Aspect))
	res := Result{Timestamp: now, Width: region.Width, Height: region.Height}

	res.SceneCut = p.scene.Observe(temporal.SparseMean(region))
	p.cutPending = p.cutPending || res.SceneCut

	p.analyzeColor(region, s, now, &res)

	if s.GoldenHUD {
		m, fp := composition.EstimateSaliency(region, s.Saliency)
		p.saliency = m
		res.Focal = &fp
	}
	return res, nil
}

func (p *Pipeline) analyzeColor(region *frame.Frame, s Settings, now time.Time, res *Result) {
	samples := palette.Filter(region, s.filter())
	if len(samples) == 0 {
		res.Skipped = true
		res.Proportions = p.stabilizer.Displayed()
		res.Measured = p.measured
		res.Score = p.score
		res.Palette = entries(res.Proportions)
		return
	}

	clusters := p.quantizer.Quantize(samples, palette.LiveClusters, palette.LiveIterations)
	segments := make([]temporal.Segment, 0, len(clusters))
	for _, c := range clusters {
		if c.Count > 0 {
			segments = append(segments, temporal.Segment{Weight: c.Weight, Color: c.RGB()})
		}
	}
	if s.TrackByColor && p.primed && !p.cutPending {
		matched := temporal.MatchByColor(p.stabilizer.Displayed(), segments)
		segments = matched[:]
	}

	u := p.stabilizer.Update(segments, p.cutPending, now)
	p.cutPending, p.primed = false, true
	p.measured = u.Measured
	pcts := u.Measured.Percentages()
	p.score = composition.Grade(pcts[:])

	res.Proportions = u.Displayed
	res.Measured = u.Measured
	res.Score = p.score
	res.Palette = entries(u.Displayed)
}

// Reset clears EMA, hysteresis and scene state so the next frame snaps.
func (p *Pipeline) Reset() {
	p.stabilizer.Reset()
	p.scene.Reset()
	p.cutPending, p.primed = false, false
	p.score = composition.Score{}
	p.measured = temporal.Proportions{}
}

// Saliency returns the map from the last frame analysed with the golden HUD on.
func (p *Pipeline) Saliency() composition.Map { return p.saliency }

func entries(props temporal.Proportions) []palette.Entry {
	out := make([]palette.Entry, len(props))
	for i, s := range props {
		out[i] = palette.NewEntry(s.Color)
	}
	return out
}
