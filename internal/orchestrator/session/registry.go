package session

import (
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Registry tracks live sessions by id
type Registry struct {
	cfg          Config
	mu           sync.Mutex
	sessions     map[string]*Session
	staleTimeout time.Duration
}

// NewRegistry creates an empty registry
func NewRegistry(cfg Config, staleTimeout time.Duration) *Registry {
	if staleTimeout <= 0 {
		staleTimeout = DefaultStaleTimeout
	}
	return &Registry{
		cfg:          cfg,
		sessions:     make(map[string]*Session),
		staleTimeout: staleTimeout,
	}
}

// Open returns the session for id, creating it if needed
func (r *Registry) Open(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := New(id, r.cfg)
	r.sessions[id] = s
	return s
}

// Get returns the session for id
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close drops the session for id
func (r *Registry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CleanupStale removes sessions idle since before now minus the stale
// timeout, except those listed in keep. Returns the number removed.
func (r *Registry) CleanupStale(now time.Time, keep ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	threshold := now.Add(-r.staleTimeout)
	removed := 0
	for id, s := range r.sessions {
		if slices.Contains(keep, id) || !s.LastSeen().Before(threshold) {
			continue
		}
		delete(r.sessions, id)
		removed++
		slog.Debug("cleaned up stale session", "session", id)
	}
	return removed
}
