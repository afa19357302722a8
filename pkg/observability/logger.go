package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
)

// SpanHandler is an [slog.Handler] middleware that copies the active
// OpenTelemetry span identity (trace_id, span_id) onto every record
// logged with a context that carries a valid span. Records logged
// without trace context pass through untouched.
type SpanHandler struct {
	next slog.Handler
}

// WithSpanContext wraps next in a SpanHandler.
func WithSpanContext(next slog.Handler) *SpanHandler {
	return &SpanHandler{next: next}
}

func (sh *SpanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.next.Enabled(ctx, level)
}

func (sh *SpanHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	return sh.next.Handle(ctx, record)
}

func (sh *SpanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SpanHandler{next: sh.next.WithAttrs(attrs)}
}

func (sh *SpanHandler) WithGroup(name string) slog.Handler {
	return &SpanHandler{next: sh.next.WithGroup(name)}
}

// serviceAttrs builds the metadata attrs attached to every logger at
// construction. Env is omitted when empty.
func serviceAttrs(service, env string) []slog.Attr {
	attrs := []slog.Attr{slog.String(attrService, service)}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	return attrs
}
