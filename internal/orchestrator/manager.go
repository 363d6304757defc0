package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	framesrc "github.com/GriffinCanCode/ratiolens/backend/platform/internal/capture"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/config"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/capture"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/results"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/session"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/themes"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// ResultEvent re-exported for the server
type ResultEvent = results.Event

// Manager owns analysis sessions and the optional capture loop
type Manager struct {
	cfg      *config.Config
	sessions *session.Registry
	capture  *session.Session
	results  *results.MemoryStore
	themes   *themes.Cache

	source   framesrc.Capturer
	procMu   sync.Mutex
	proc     *capture.Processor
	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a manager. A capture source that cannot be opened disables the
// capture loop; WebSocket sessions still work.
func New(cfg *config.Config) *Manager {
	scfg := session.Config{
		Options:           cfg.PipelineOptions(),
		Defaults:          cfg.Settings(),
		MilestoneCooldown: time.Duration(cfg.MilestoneCooldown * float64(time.Second)),
	}
	m := &Manager{
		cfg:      cfg,
		sessions: session.NewRegistry(scfg, cfg.SessionIdleTimeout),
		results:  results.NewStore(ResultMaxEntries, ResultEventBuffer),
		themes:   themes.NewCache(themes.DefaultCapacity, func() *palette.Quantizer { return palette.NewQuantizer(uint64(time.Now().UnixNano())) }),
		stopCh:   make(chan struct{}),
	}
	m.capture = m.sessions.Open(capture.SessionID)

	if cfg.CaptureSource != "" {
		src, err := framesrc.New(cfg.CaptureSource)
		if err != nil {
			trace.Logger(context.Background()).Error("capture source unavailable", "source", cfg.CaptureSource, "error", err)
		} else {
			m.UseSource(src)
		}
	}
	return m
}

// UseSource replaces the capture source. Call before Start.
func (m *Manager) UseSource(src framesrc.Capturer) {
	m.procMu.Lock()
	defer m.procMu.Unlock()
	if m.source != nil {
		m.source.Close()
	}
	m.source = src
	m.proc = capture.NewProcessor(src, m.capture, m.results, m.cfg.Width())
}

// Start begins the capture and cleanup loops
func (m *Manager) Start(ctx context.Context) error {
	log := trace.Logger(ctx)

	m.procMu.Lock()
	proc := m.proc
	m.procMu.Unlock()
	if proc != nil {
		log.Info("capture loop starting", "source", m.cfg.CaptureSource, "rate", m.cfg.CaptureRate)
		go proc.Run(ctx, m.cfg.CaptureRate, m.stopCh)
	}

	go m.cleanupLoop(ctx)
	return nil
}

func (m *Manager) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case now := <-ticker.C:
			if n := m.sessions.CleanupStale(now, capture.SessionID); n > 0 {
				trace.Logger(ctx).Debug("dropped idle sessions", "count", n)
			}
		}
	}
}

// Stop stops the loops and releases the capture source
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.procMu.Lock()
		if m.source != nil {
			m.source.Close()
		}
		m.procMu.Unlock()
	})
}

// OpenSession creates an analysis session for one frame stream
func (m *Manager) OpenSession() *session.Session {
	return m.sessions.Open(session.NewID())
}

// CloseSession drops a session and its temporal state
func (m *Manager) CloseSession(id string) {
	if id == capture.SessionID {
		return
	}
	m.sessions.Close(id)
}

// CaptureSession returns the session fed by the capture loop
func (m *Manager) CaptureSession() *session.Session {
	return m.capture
}

// Latest returns the last published capture-loop result
func (m *Manager) Latest() (results.Entry, bool) {
	return m.results.Latest()
}

// Recent returns up to n capture-loop results, oldest first
func (m *Manager) Recent(n int) []results.Entry {
	return m.results.Recent(n)
}

// CaptureState reports the capture source breaker state, or "disabled"
// when no source is configured
func (m *Manager) CaptureState() string {
	m.procMu.Lock()
	proc := m.proc
	m.procMu.Unlock()
	if proc == nil {
		return CaptureDisabled
	}
	return proc.BreakerState().String()
}

// CaptureEvents returns channel for capture-loop result events
func (m *Manager) CaptureEvents() <-chan ResultEvent {
	return m.results.Events()
}

// Theme derives a color theme from an encoded still image
func (m *Manager) Theme(ctx context.Context, data []byte) (palette.Theme, error) {
	return m.themes.Derive(ctx, data)
}

// SessionCount returns the number of open sessions, including capture
func (m *Manager) SessionCount() int {
	return m.sessions.Len()
}
