package observability

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"go-flag-graph-service/internal/config"
)

type testHandler struct {
	enabled    bool
	handled    int
	lastRecord slog.Record
	attrs      []slog.Attr
}

func (h *testHandler) Enabled(context.Context, slog.Level) bool { return h.enabled }

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	h.handled++
	h.lastRecord = r
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *testHandler) WithGroup(string) slog.Handler {
	next := *h
	return &next
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		" INFO": slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", in, got, want)
		}
	}
}

func TestTraceContextHandlerWithoutSpan(t *testing.T) {
	inner := &testHandler{enabled: true}
	h := &traceContextHandler{next: inner}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle no span: %v", err)
	}
	if inner.handled != 1 {
		t.Fatalf("expected record forwarded, handled=%d", inner.handled)
	}
	inner.lastRecord.Attrs(func(a slog.Attr) bool {
		if a.Key == "trace_id" || a.Key == "span_id" {
			t.Fatalf("unexpected trace attr without active span: %s", a.Key)
		}
		return true
	})
}

func TestTraceContextHandlerAddsTraceFields(t *testing.T) {
	inner := &testHandler{enabled: true}
	h := &traceContextHandler{next: inner}

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:  trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := h.Handle(ctx, rec); err != nil {
		t.Fatalf("handle with span: %v", err)
	}

	var gotTrace, gotSpan bool
	inner.lastRecord.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "trace_id":
			gotTrace = a.Value.String() == spanCtx.TraceID().String()
		case "span_id":
			gotSpan = a.Value.String() == spanCtx.SpanID().String()
		}
		return true
	})
	if !gotTrace || !gotSpan {
		t.Fatalf("missing trace correlation attrs: trace=%v span=%v", gotTrace, gotSpan)
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	cfg := &config.Config{LogLevel: "warn", OTELServiceName: "svc", Env: "test"}
	logger := NewLogger(cfg)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info must be suppressed at warn level")
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error must be enabled at warn level")
	}
}
