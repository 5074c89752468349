package logger

import (
	"context"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

// recordingHandler captures the attrs of the last record it handled.
type recordingHandler struct {
	attrs map[string]string
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.attrs = make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		h.attrs[a.Key] = a.Value.String()
		return true
	})
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestTraceContextHandler_InjectsTraceIDs(t *testing.T) {
	inner := &recordingHandler{}
	log := slog.New(NewTraceContextHandler(inner))

	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanID := trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	log.InfoContext(ctx, "message")

	if got := inner.attrs["trace_id"]; got != traceID.String() {
		t.Errorf("expected trace_id %s, got %q", traceID, got)
	}
	if got := inner.attrs["span_id"]; got != spanID.String() {
		t.Errorf("expected span_id %s, got %q", spanID, got)
	}
}

func TestTraceContextHandler_NoSpanNoAttrs(t *testing.T) {
	inner := &recordingHandler{}
	log := slog.New(NewTraceContextHandler(inner))

	log.InfoContext(context.Background(), "message")

	if _, ok := inner.attrs["trace_id"]; ok {
		t.Error("trace_id must not be added without a span in context")
	}
}
