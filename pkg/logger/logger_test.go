package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestWithContextAddsRequestAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	Logger = New(&buf, "catalog-service")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = ContextWithRequestID(ctx, "req-42")

	Info(ctx).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "catalog-service", line["service"])
	assert.Equal(t, "req-42", line["request_id"])
	assert.Equal(t, traceID.String(), line["trace_id"])
	assert.Equal(t, spanID.String(), line["span_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestWithContextWithoutIDs(t *testing.T) {
	var buf bytes.Buffer
	Logger = New(&buf, "user-service")

	Warn(context.Background()).Msg("plain")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "request_id")
	assert.NotContains(t, line, "trace_id")
	assert.Equal(t, "warn", line["level"])
}
