package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// AttrExtractor returns attributes derived from a context, such as a
// request trace id.
type AttrExtractor func(ctx context.Context) []slog.Attr

// ContextHandler wraps an slog.Handler and adds span correlation ids and
// any extractor attributes found in the record's context.
type ContextHandler struct {
	inner      slog.Handler
	extractors []AttrExtractor
}

// NewContextHandler creates a ContextHandler around inner.
func NewContextHandler(inner slog.Handler, extractors ...AttrExtractor) *ContextHandler {
	return &ContextHandler{inner: inner, extractors: extractors}
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds context attributes before delegating to the inner handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			r.AddAttrs(
				slog.String("otel_trace_id", sc.TraceID().String()),
				slog.String("span_id", sc.SpanID().String()),
			)
		}
		for _, extract := range h.extractors {
			r.AddAttrs(extract(ctx)...)
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), extractors: h.extractors}
}

// WithGroup returns a new handler with the given group appended.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name), extractors: h.extractors}
}
