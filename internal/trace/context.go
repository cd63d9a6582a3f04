package trace

import (
	"context"
	"sync"
)

// ctxKey is the key type for storing Tracer in context.
type ctxKey struct{}

var (
	defaultOnce   sync.Once
	defaultTracer *Tracer
)

// Default returns the process-wide tracer writing plain text to stdout.
func Default() *Tracer {
	defaultOnce.Do(func() {
		defaultTracer = New()
	})
	return defaultTracer
}

// FromContext extracts the Tracer from context.
// If not found, returns the Default tracer.
func FromContext(ctx context.Context) *Tracer {
	if ctx == nil {
		return Default()
	}
	if t, ok := ctx.Value(ctxKey{}).(*Tracer); ok && t != nil {
		return t
	}
	return Default()
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t *Tracer) context.Context {
	if t == nil {
		t = Default()
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// Print traces values with the tracer carried by ctx.
func Print(ctx context.Context, values ...any) {
	FromContext(ctx).emit(2, values)
}
