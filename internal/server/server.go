package server

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis/palette"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/config"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/results"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator/session"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

// Manager is the orchestrator surface used by the handlers.
type Manager interface {
	OpenSession() *session.Session
	CloseSession(id string)
	CaptureSession() *session.Session
	Latest() (results.Entry, bool)
	Recent(n int) []results.Entry
	CaptureState() string
	CaptureEvents() <-chan orchestrator.ResultEvent
	Theme(ctx context.Context, data []byte) (palette.Theme, error)
	SessionCount() int
}

// Server handles HTTP and WebSocket connections.
type Server struct {
	mgr     Manager
	origins []string
	width   int
	maxRate float64

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

// New creates a server and starts relaying capture-loop events to clients.
func New(mgr Manager, cfg *config.Config) *Server {
	s := &Server{
		mgr:     mgr,
		origins: cfg.AllowedOrigins,
		width:   cfg.Width(),
		maxRate: cfg.MaxFrameRate,
		conns:   make(map[*websocket.Conn]struct{}),
	}
	go s.broadcastCapture()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)

	mux.HandleFunc("GET /api/latest", s.handleLatest)
	mux.HandleFunc("GET /api/recent", s.handleRecent)
	mux.HandleFunc("GET /api/palette", s.handlePalette)
	mux.HandleFunc("POST /api/theme", s.handleTheme)
	mux.HandleFunc("GET /api/saliency.webp", s.handleSaliency)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("POST /api/settings", s.handleSettings)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Apply middleware: trace -> CORS
	return s.corsMiddleware(trace.Middleware(mux))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+trace.TraceIDKey+", "+trace.SpanIDKey)
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// originAllowed matches the origin host against the configured patterns the
// same way the WebSocket handshake does.
func (s *Server) originAllowed(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, pattern := range s.origins {
		if ok, _ := path.Match(pattern, u.Host); ok {
			return true
		}
	}
	return false
}

func (s *Server) addConn(c *websocket.Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeConn(c *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) broadcastCapture() {
	for evt := range s.mgr.CaptureEvents() {
		msg := ResultMessage{Type: evt.Type, Session: evt.Session, Result: evt.Result}

		s.mu.RLock()
		for conn := range s.conns {
			go func(c *websocket.Conn) {
				ctx, cancel := context.WithTimeout(context.Background(), WriteTimeout)
				defer cancel()
				_ = wsjson.Write(ctx, c, msg)
			}(conn)
		}
		s.mu.RUnlock()
	}
}
