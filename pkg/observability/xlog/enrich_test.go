package xlog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func spanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestNewEnrichHandler_Nil(t *testing.T) {
	h, err := NewEnrichHandler(nil)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestEnrichHandler_InjectsTraceFields(t *testing.T) {
	s := newMemSink("all", LevelDebug)
	h, err := NewEnrichHandler(s)
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t))
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "m", 0)
	require.NoError(t, h.Handle(ctx, r))

	assert.Equal(t,
		[]string{"INFO m trace_id=4bf92f3577b34da6a3ce929d0e0e4736 span_id=00f067aa0ba902b7"},
		s.Lines())
	assert.Zero(t, r.NumAttrs(), "原始 record 不被修改")
}

func TestEnrichHandler_NoSpan(t *testing.T) {
	s := newMemSink("all", LevelDebug)
	h, err := NewEnrichHandler(s)
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "m", 0)))
	assert.Equal(t, []string{"INFO m"}, s.Lines())
}

func TestEnrichHandler_Derive(t *testing.T) {
	s := newMemSink("all", LevelInfo)
	h, err := NewEnrichHandler(s)
	require.NoError(t, err)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

	d := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("g")
	_, ok := d.(*EnrichHandler)
	require.True(t, ok)
	require.NoError(t, d.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "m", 0)))
	assert.Equal(t, []string{"INFO m k=v"}, s.Lines())
}

func TestChannel_TraceFields(t *testing.T) {
	ch, err := NewRegistry().Channel("job")
	require.NoError(t, err)
	s := newMemSink("all", LevelDebug)
	require.NoError(t, ch.Attach(s))

	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t))
	ch.Info(ctx, "m", Err(nil), Path("/tmp/x"))

	require.Len(t, s.Lines(), 1)
	assert.Contains(t, s.Lines()[0], "path=/tmp/x")
	assert.Contains(t, s.Lines()[0], "trace_id=4bf92f3577b34da6a3ce929d0e0e4736")
}
