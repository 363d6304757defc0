// Package results keeps recent capture-loop results and fans out events
package results

import (
	"sync"
	"time"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/analysis"
)

// Event types
const (
	EventResult  = "result"
	EventPerfect = "perfect"
)

// Event is a published result or milestone.
type Event struct {
	Type    string
	Session string
	Result  analysis.Result
}

// Entry is a stored result.
type Entry struct {
	Received time.Time
	Session  string
	Result   analysis.Result
}

// Store interface for result operations.
type Store interface {
	Add(session string, r analysis.Result)
	Latest() (Entry, bool)
	Recent(n int) []Entry
	Events() <-chan Event
	Emit(event Event)
}

// MemoryStore is a bounded in-memory ring of recent results. Nothing is
// persisted.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  []Entry
	maxSize  int
	eventsCh chan Event
}

// NewStore creates a new result store.
func NewStore(maxEntries, eventBuffer int) *MemoryStore {
	return &MemoryStore{
		entries:  make([]Entry, 0, maxEntries),
		maxSize:  maxEntries,
		eventsCh: make(chan Event, eventBuffer),
	}
}

// Add stores a new result.
func (s *MemoryStore) Add(session string, r analysis.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, Entry{Received: time.Now(), Session: session, Result: r})
	if len(s.entries) > s.maxSize {
		s.entries = s.entries[len(s.entries)-s.maxSize:]
	}
}

// Latest returns the most recent result.
func (s *MemoryStore) Latest() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Recent returns up to n results, oldest first.
func (s *MemoryStore) Recent(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n = min(max(n, 0), len(s.entries))
	result := make([]Entry, n)
	copy(result, s.entries[len(s.entries)-n:])
	return result
}

// Events returns the channel for result events.
func (s *MemoryStore) Events() <-chan Event {
	return s.eventsCh
}

// Emit sends an event (non-blocking; dropped when no one keeps up).
func (s *MemoryStore) Emit(event Event) {
	select {
	case s.eventsCh <- event:
	default:
	}
}
