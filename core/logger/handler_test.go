package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(Background(), "rid-123")
	ctx = WithConversation(ctx, "tg", "42")

	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "test.event",
		slog.String("status", "ok"),
		slog.String("cause", "unit"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	if len(tokens) < 6 {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123", "transport=tg", "conv_id=42"}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatJSON,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(Background(), "rid-json")
	ctx = WithConversation(ctx, "wa", "573001234567")

	log := slog.New(handler).With("component", "service.test")
	LogEvent(ctx, log, slog.LevelError, "service.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.String("err_code", "TEST_FAIL"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.test"`, `"event":"service.failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"transport":"wa"`, `"conv_id":"573001234567"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	rawRID := "123:456:789"
	ctx := WithRID(Background(), rawRID)
	log := slog.New(handler).With("component", "app")
	LogEvent(ctx, log, slog.LevelInfo, "rid.test",
		slog.String("status", "ok"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
}

func TestCompactRIDPassesThroughWebhookIDs(t *testing.T) {
	// Webhook request ids are uuids; they must not be rewritten.
	raw := "7f9c24e5-1a2b-4c3d-9e8f-0a1b2c3d4e5f"
	if got := CompactRID(raw); got != raw {
		t.Fatalf("CompactRID(%q) = %q, expected unchanged", raw, got)
	}
}
