package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	t.Cleanup(SetOutput(&buf))
	t.Cleanup(func() {
		SetLevel(LevelInfo)
		SetStaticFields(nil)
	})
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("expected JSON line, got %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestErrorFieldsAreStringified(t *testing.T) {
	buf := capture(t)

	Error("analysis.failed", map[string]any{
		"analysis_id": "a-1",
		"err":         errors.New("boom"),
		"msg":         "must not override",
	})

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	got := lines[0]
	if got["level"] != "error" || got["msg"] != "analysis.failed" {
		t.Fatalf("unexpected level/msg: %v", got)
	}
	if got["err"] != "boom" {
		t.Fatalf("expected error to be stringified, got %v", got["err"])
	}
	if got["analysis_id"] != "a-1" {
		t.Fatalf("expected analysis_id field, got %v", got["analysis_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelWarn)

	Debug("cache.hit", nil)
	Info("request.complete", nil)
	Warn("cache.get_failed", nil)
	Error("panic", nil)

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected warn and error only, got %d lines", len(lines))
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Fatalf("unexpected levels: %v, %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestCtxHelpersAddRequestID(t *testing.T) {
	buf := capture(t)
	ctx := WithRequestID(context.Background(), "req-5")

	InfoCtx(ctx, "analysis.completed", map[string]any{"score": 80})
	WarnCtx(ctx, "cache.set_failed", map[string]any{"request_id": "explicit"})
	ErrorCtx(context.Background(), "auth.google_link_failed", nil)

	lines := decodeLines(t, buf)
	if lines[0]["request_id"] != "req-5" {
		t.Fatalf("expected request id from context, got %v", lines[0]["request_id"])
	}
	if lines[1]["request_id"] != "explicit" {
		t.Fatalf("explicit request id should win, got %v", lines[1]["request_id"])
	}
	if _, ok := lines[2]["request_id"]; ok {
		t.Fatalf("expected no request id without context value")
	}
}

func TestStaticFields(t *testing.T) {
	buf := capture(t)
	SetStaticFields(map[string]any{"service": "resume-analyzer", "env": "test"})

	Info("db.connected", map[string]any{"env": "override"})

	got := decodeLines(t, buf)[0]
	if got["service"] != "resume-analyzer" {
		t.Fatalf("expected service field, got %v", got["service"])
	}
	if got["env"] != "override" {
		t.Fatalf("call fields should override static ones, got %v", got["env"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
