package capture

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
	framesrc "github.com/GriffinCanCode/ratiolens/backend/platform/internal/capture"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/frame"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/results"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/session"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/resilience"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// Analyzer processes decoded frames in order.
type Analyzer interface {
	ID() string
	Process(ctx context.Context, f *frame.Frame, ts time.Time) (session.Outcome, error)
}

// Sink receives published results.
type Sink interface {
	Add(session string, r analysis.Result)
	Emit(event results.Event)
}

type captured struct {
	data    []byte
	changed bool
}

// Processor pulls frames from a capture source and feeds an analysis session.
type Processor struct {
	capturer framesrc.Capturer
	analyzer Analyzer
	sink     Sink
	breaker  *resilience.Breaker
	retry    resilience.RetryConfig
	width    int

	mu   sync.RWMutex
	last *frame.Frame
}

// NewProcessor creates a capture processor. Frames are downsampled to width
// before analysis.
func NewProcessor(capturer framesrc.Capturer, analyzer Analyzer, sink Sink, width int) *Processor {
	return &Processor{
		capturer: capturer,
		analyzer: analyzer,
		sink:     sink,
		breaker:  resilience.New(resilience.CaptureConfig()),
		retry:    resilience.CaptureRetryConfig(),
		width:    width,
	}
}

// Run starts the capture loop.
func (p *Processor) Run(ctx context.Context, captureRate float64, stopCh <-chan struct{}) {
	interval := time.Duration(float64(time.Second) / max(captureRate, MinRate))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := trace.Logger(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case now := <-ticker.C:
			if err := p.Tick(ctx, now); err != nil {
				log.Debug("capture tick failed", "error", err)
			}
		}
	}
}

// Tick captures and analyses one frame at now. An unchanged capture re-runs
// the last decoded frame so time-based smoothing keeps advancing.
func (p *Processor) Tick(ctx context.Context, now time.Time) error {
	ctx, span := trace.StartSpan(ctx, "capture_tick")
	defer span.End()

	var shot captured
	err := resilience.Retry(ctx, p.retry, func() error {
		var err error
		shot, err = resilience.Call(p.breaker, func() (captured, error) {
			data, changed, err := p.capturer.Capture(ctx)
			return captured{data: data, changed: changed}, err
		})
		return err
	})
	if err != nil {
		span.SetAttr("error", err.Error())
		return err
	}
	span.SetAttr("changed", shot.changed)

	f, err := p.frameFor(shot)
	if err != nil || f == nil {
		return err
	}

	out, err := p.analyzer.Process(ctx, f, now)
	if err != nil {
		return err
	}
	if !out.Publish {
		return nil
	}

	id := p.analyzer.ID()
	p.sink.Add(id, out.Result)
	p.sink.Emit(results.Event{Type: results.EventResult, Session: id, Result: out.Result})
	if out.Perfect {
		p.sink.Emit(results.Event{Type: results.EventPerfect, Session: id, Result: out.Result})
	}
	return nil
}

func (p *Processor) frameFor(shot captured) (*frame.Frame, error) {
	if !shot.changed {
		return p.Frame(), nil
	}
	f, err := frame.DecodeFrame(shot.data, p.width)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.last = f
	p.mu.Unlock()
	return f, nil
}

// Frame returns the last decoded frame, or nil before the first capture.
func (p *Processor) Frame() *frame.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// BreakerState reports the capture source breaker state
func (p *Processor) BreakerState() resilience.State {
	return p.breaker.State()
}
