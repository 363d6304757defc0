package capture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	apperrors "github.com/GriffinCanCode/ratiolens/backend/platform/internal/errors"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/results"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/session"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/resilience"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type shot struct {
	data    []byte
	changed bool
	err     error
}

type mockCapturer struct {
	shots []shot
	calls int
}

func (m *mockCapturer) Capture(_ context.Context) ([]byte, bool, error) {
	s := m.shots[min(m.calls, len(m.shots)-1)]
	m.calls++
	return s.data, s.changed, s.err
}

func (m *mockCapturer) Close() {}

// splitPNG is 60% red, 30% green and 10% blue by column.
func splitPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 90, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 90; x++ {
			c := color.NRGBA{R: 220, G: 30, B: 30, A: 255}
			switch {
			case x >= 81:
				c = color.NRGBA{R: 20, G: 40, B: 230, A: 255}
			case x >= 54:
				c = color.NRGBA{R: 30, G: 200, B: 60, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func newTestProcessor(shots ...shot) (*Processor, *mockCapturer, *results.MemoryStore) {
	s := analysis.DefaultSettings()
	s.ScoreMode = analysis.ScoreModeFrame
	sess := session.New(SessionID, session.Config{
		Options:  analysis.Options{Quantizer: palette.NewFixedQuantizer(0)},
		Defaults: s,
	})
	cap := &mockCapturer{shots: shots}
	store := results.NewStore(10, 10)
	return NewProcessor(cap, sess, store, 90), cap, store
}

func drain(store *results.MemoryStore) []string {
	var types []string
	for {
		select {
		case e := <-store.Events():
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func TestTickPublishesResult(t *testing.T) {
	p, _, store := newTestProcessor(shot{data: splitPNG(), changed: true})

	if err := p.Tick(context.Background(), t0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	e, ok := store.Latest()
	if !ok {
		t.Fatal("no result stored")
	}
	if e.Session != SessionID || e.Result.Score.Score != 100 {
		t.Errorf("stored = %s score %d, want capture score 100", e.Session, e.Result.Score.Score)
	}
	got := drain(store)
	if len(got) != 2 || got[0] != results.EventResult || got[1] != results.EventPerfect {
		t.Errorf("events = %v, want [result perfect]", got)
	}
	if p.Frame() == nil || p.Frame().Width != 90 {
		t.Error("decoded frame should be cached")
	}
}

func TestTickReusesUnchangedFrame(t *testing.T) {
	p, _, store := newTestProcessor(shot{data: splitPNG(), changed: true}, shot{changed: false})
	ctx := context.Background()

	_ = p.Tick(ctx, t0)
	drain(store)

	if err := p.Tick(ctx, t0.Add(time.Second)); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	e, _ := store.Latest()
	if !e.Result.Timestamp.Equal(t0.Add(time.Second)) {
		t.Errorf("latest timestamp = %v, want re-analysed frame", e.Result.Timestamp)
	}
	if len(store.Recent(10)) != 2 {
		t.Errorf("stored %d results, want 2", len(store.Recent(10)))
	}
}

func TestTickUnchangedBeforeFirstFrame(t *testing.T) {
	p, _, store := newTestProcessor(shot{changed: false})

	if err := p.Tick(context.Background(), t0); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if _, ok := store.Latest(); ok {
		t.Error("nothing should be stored without a frame")
	}
}

func TestTickDecodeError(t *testing.T) {
	p, _, _ := newTestProcessor(shot{data: []byte("junk"), changed: true})

	err := p.Tick(context.Background(), t0)
	if !apperrors.IsCode(err, apperrors.ImageDecodeFailed) {
		t.Errorf("Tick() error = %v, want ImageDecodeFailed", err)
	}
}

func TestTickOpensBreaker(t *testing.T) {
	fail := apperrors.New(apperrors.CaptureFailed, "no screenshot")
	p, cap, _ := newTestProcessor(shot{err: fail})
	ctx := context.Background()

	// One tick retries up to the breaker threshold
	if err := p.Tick(ctx, t0); !apperrors.IsCode(err, apperrors.CaptureFailed) {
		t.Fatalf("Tick() error = %v, want CaptureFailed", err)
	}
	if p.BreakerState() != resilience.Open {
		t.Fatalf("breaker = %v, want open", p.BreakerState())
	}

	calls := cap.calls
	if err := p.Tick(ctx, t0.Add(time.Second)); err != resilience.ErrOpen {
		t.Errorf("Tick() error = %v, want ErrOpen", err)
	}
	if cap.calls != calls {
		t.Error("open breaker should not reach the capturer")
	}
}

func TestRunStops(t *testing.T) {
	p, _, _ := newTestProcessor(shot{changed: false})
	stopCh := make(chan struct{})
	done := make(chan struct{})

	go func() {
		p.Run(context.Background(), 100, stopCh)
		close(done)
	}()
	close(stopCh)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stop")
	}
}
