package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

const (
	testService = "rangekit-test"
	testEnv     = "ci"
)

// newTestLogger builds a text logger with service attrs and span
// injection, capturing output in the returned buffer.
func newTestLogger(service, env string) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	inner := slog.NewTextHandler(&buf, nil).WithAttrs(serviceAttrs(service, env))

	return slog.New(WithSpanContext(inner)), &buf
}

// TestServiceAttrs verifies service metadata is attached to every
// record and env is omitted when empty.
func TestServiceAttrs(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(testService, testEnv)
	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "service="+testService)
	assert.Contains(t, out, "env="+testEnv)

	logger, buf = newTestLogger(testService, "")
	logger.Info("hello")

	out = buf.String()
	assert.Contains(t, out, "service="+testService)
	assert.NotContains(t, out, "env=")
}

// TestSpanHandler_TraceContext verifies trace and span IDs are injected
// when the context carries a valid span context.
func TestSpanHandler_TraceContext(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(testService, testEnv)

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "traced")

	out := buf.String()
	assert.Contains(t, out, "trace_id="+traceID.String())
	assert.Contains(t, out, "span_id="+spanID.String())
}

// TestSpanHandler_NoTraceContext verifies records without a span
// context pass through without trace attributes.
func TestSpanHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(testService, testEnv)
	logger.InfoContext(context.Background(), "untraced")

	out := buf.String()
	assert.NotContains(t, out, "trace_id=")
	assert.NotContains(t, out, "span_id=")
}

// TestSpanHandler_WithGroup verifies service attrs stay top-level when
// a group is opened.
func TestSpanHandler_WithGroup(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger(testService, testEnv)
	logger.WithGroup("query").Info("grouped", slog.Int("hits", 3))

	out := buf.String()
	assert.Contains(t, out, "service="+testService)
	assert.Contains(t, out, "query.hits=3")
}
