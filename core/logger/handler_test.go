package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// renderLine runs emit against a fresh handler and returns the single written line.
func renderLine(t *testing.T, format logFormat, emit func(log *slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})
	emit(slog.New(handler))
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line")
	}
	return line
}

func assertOrdered(t *testing.T, line string, parts ...string) {
	t.Helper()
	pos := -1
	for _, part := range parts {
		idx := strings.Index(line, part)
		if idx == -1 || idx < pos {
			t.Fatalf("%s not found in order within %s", part, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-123"), 42, 7, 9)
	line := renderLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", "booking"), slog.LevelInfo, "booking.completed",
			slog.String("cause", "unit"),
			slog.String("flow", "booking"),
			slog.String("status", "ok"),
		)
	})
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=booking", "event=booking.completed", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "flow=booking", "cause=unit"}
	if len(tokens) != len(expected) {
		t.Fatalf("unexpected tokens %q", tokens)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-json"), 11, 22, 33)
	line := renderLine(t, formatJSON, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", "notify"), slog.LevelError, "notify.fail",
			slog.String("err_code", "TG_API"),
			slog.String("err", "boom"),
			slog.String("status", "fail"),
		)
	})
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	assertOrdered(t, line, `{"ts":`, `"level":"ERROR"`, `"component":"notify"`, `"event":"notify.fail"`, `"status":"fail"`, `"rid":"rid-json"`, `"err":"boom"`, `"err_code":"TG_API"`)
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	raw := "123:456:789"
	ctx := WithRID(context.Background(), raw)
	emit := func(log *slog.Logger) { LogEvent(ctx, log, slog.LevelInfo, "rid.test") }

	kv := renderLine(t, formatKV, emit)
	if !strings.Contains(kv, "rid="+CompactRID(raw)) || strings.Contains(kv, "rid_full=") {
		t.Fatalf("expected compact rid only, got %s", kv)
	}

	js := renderLine(t, formatJSON, emit)
	for _, want := range []string{`"rid":"` + CompactRID(raw) + `"`, `"rid_full":"` + raw + `"`, `"ts_unix_nano"`} {
		if !strings.Contains(js, want) {
			t.Fatalf("expected %s in %s", want, js)
		}
	}
}

func TestStructuredHandlerOutcomeFilter(t *testing.T) {
	for outcome, kept := range map[string]bool{"denied": true, "rate_limited": true, "Fail": true, "maybe": false} {
		line := renderLine(t, formatKV, func(log *slog.Logger) {
			LogEvent(context.Background(), log, slog.LevelWarn, "access.check", slog.String("outcome", outcome))
		})
		if got := strings.Contains(line, "outcome="+outcome); got != kept {
			t.Fatalf("outcome %q kept=%v in %s", outcome, got, line)
		}
	}
}

func TestStructuredHandlerNormalizesValues(t *testing.T) {
	ctx := WithHandler(context.Background(), "command:/start")
	line := renderLine(t, formatKV, func(log *slog.Logger) {
		log.LogAttrs(ctx, slog.LevelDebug, "",
			slog.Duration("duration", 1499*time.Microsecond),
			slog.Duration("wait", 20*time.Millisecond),
			slog.String("empty", "  "),
			slog.Group("store", slog.String("backend", "redis")),
		)
	})
	for _, want := range []string{"level=DEBUG", "component=app", "event=unknown", "handler=command:/start", "duration_ms=1", "wait_ms=20", "store.backend=redis"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
	if strings.Contains(line, "empty=") {
		t.Fatalf("blank strings must be dropped: %s", line)
	}
}
