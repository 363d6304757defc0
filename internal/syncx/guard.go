// Package syncx provides extended synchronization primitives
package syncx

import "sync"

// Guard holds a value behind an RWMutex. T should be a value type so that
// Load hands out an independent copy.
type Guard[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewGuard creates a guarded value.
func NewGuard[T any](initial T) *Guard[T] {
	return &Guard[T]{value: initial}
}

// Load returns a copy of the value.
func (g *Guard[T]) Load() T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value
}

// Store replaces the value and returns the previous one.
func (g *Guard[T]) Store(v T) (old T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	old, g.value = g.value, v
	return old
}

// Modify mutates the value in place under the write lock and returns the
// value before and after the change.
func (g *Guard[T]) Modify(fn func(*T)) (before, after T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	before = g.value
	fn(&g.value)
	return before, g.value
}
