package nodes

import (
	"context"
	"fmt"
)

// tracerKey is the context key used to attach an optional tracer.
type tracerKey struct{}

// Tracer receives trace lines emitted by the graph during evaluation,
// invalidation, and scope transitions. It is attached to a context with
// WithTracing and is otherwise a no-op, matching the teacher's pattern of
// gating diagnostic output behind an opt-in context value rather than a
// package-level logger.
type Tracer interface {
	Printf(format string, args ...any)
}

// TracerFunc adapts a plain function to the Tracer interface.
type TracerFunc func(format string, args ...any)

// Printf implements Tracer.
func (f TracerFunc) Printf(format string, args ...any) { f(format, args...) }

// WithTracing attaches a Tracer to ctx that writes trace lines with
// fmt.Printf. Use WithTracer to supply a custom sink.
func WithTracing(ctx context.Context) context.Context {
	return WithTracer(ctx, TracerFunc(func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}))
}

// WithTracer attaches a specific Tracer to ctx.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// tracerFrom returns the Tracer attached to ctx, or nil if none was
// attached.
func tracerFrom(ctx context.Context) Tracer {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(tracerKey{}).(Tracer)
	return t
}

// tracePrintf writes a trace line if ctx has a tracer attached, and is
// otherwise a no-op.
func tracePrintf(ctx context.Context, format string, args ...any) {
	if t := tracerFrom(ctx); t != nil {
		t.Printf(format, args...)
	}
}
