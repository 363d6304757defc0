// Package trace carries W3C-style trace and span ids through contexts so log
// lines from one frame, request or RPC can be correlated.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"
)

// Header and metadata keys used for propagation.
const (
	TraceIDKey      = "x-trace-id"
	SpanIDKey       = "x-span-id"
	ParentSpanIDKey = "x-parent-span-id"
)

// Spans slower than this are logged at info level instead of debug.
const SlowSpan = 250 * time.Millisecond

type ctxKey struct{}

// Context holds trace identifiers for a single span.
type Context struct {
	TraceID      string
	SpanID       string
	ParentSpanID string
}

// New creates a root trace context.
func New() Context {
	return Context{TraceID: newID(16), SpanID: newID(8)}
}

// NewChild creates a child context from parent.
func NewChild(parent Context) Context {
	return Context{TraceID: parent.TraceID, SpanID: newID(8), ParentSpanID: parent.SpanID}
}

// FromContext extracts trace context from ctx.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	return tc, ok
}

// WithContext injects tc into ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// EnsureContext returns the existing trace context or starts a new trace.
func EnsureContext(ctx context.Context) (context.Context, Context) {
	if tc, ok := FromContext(ctx); ok {
		return ctx, tc
	}
	tc := New()
	return WithContext(ctx, tc), tc
}

// FromMap continues the caller's trace described by m in a new span.
// A missing trace id starts a new trace.
func FromMap(m map[string]string) Context {
	tc := Context{TraceID: m[TraceIDKey], SpanID: newID(8), ParentSpanID: m[SpanIDKey]}
	if tc.TraceID == "" {
		tc.TraceID = newID(16)
	}
	return tc
}

// newID returns n random bytes hex encoded: 16 for traces, 8 for spans.
func newID(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Span is a timed operation within a trace.
type Span struct {
	Name      string
	Ctx       Context
	StartTime time.Time
	EndTime   time.Time

	mu    sync.Mutex
	attrs map[string]any
}

// StartSpan begins a span as a child of the span in ctx, if any.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	tc := New()
	if parent, ok := FromContext(ctx); ok && parent.TraceID != "" {
		tc = NewChild(parent)
	}
	s := &Span{Name: name, Ctx: tc, StartTime: time.Now(), attrs: make(map[string]any)}
	return WithContext(ctx, tc), s
}

// End marks the span complete and logs it.
func (s *Span) End() {
	s.EndTime = time.Now()
	level := slog.LevelDebug
	if s.Duration() >= SlowSpan {
		level = slog.LevelInfo
	}
	slog.Default().Log(context.Background(), level, "span", "span", s)
}

// SetAttr sets a span attribute.
func (s *Span) SetAttr(key string, val any) {
	s.mu.Lock()
	s.attrs[key] = val
	s.mu.Unlock()
}

// Attr returns a span attribute.
func (s *Span) Attr(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[key]
	return v, ok
}

// Duration returns the span duration, zero while the span is open.
func (s *Span) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// LogValue implements slog.LogValuer.
func (s *Span) LogValue() slog.Value {
	attrs := append(s.Ctx.LogAttrs(),
		slog.String("name", s.Name),
		slog.Duration("duration", s.Duration()),
	)
	s.mu.Lock()
	for k, v := range s.attrs {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.mu.Unlock()
	return slog.GroupValue(attrs...)
}

// LogAttrs returns the ids as slog attributes.
func (c Context) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("trace_id", c.TraceID),
		slog.String("span_id", c.SpanID),
	}
	if c.ParentSpanID != "" {
		attrs = append(attrs, slog.String("parent_span_id", c.ParentSpanID))
	}
	return attrs
}

// Logger returns the default logger annotated with the trace in ctx.
func Logger(ctx context.Context) *slog.Logger {
	tc, ok := FromContext(ctx)
	if !ok {
		return slog.Default()
	}
	args := make([]any, 0, 6)
	args = append(args, "trace_id", tc.TraceID, "span_id", tc.SpanID)
	if tc.ParentSpanID != "" {
		args = append(args, "parent_span_id", tc.ParentSpanID)
	}
	return slog.Default().With(args...)
}
