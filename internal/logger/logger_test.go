package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn level were logged: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("warn/error messages missing: %s", out)
	}
}

func TestJSONFieldRenaming(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("something odd")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["message"] != "something odd" {
		t.Errorf("message field = %v, want 'something odd'", entry["message"])
	}
	if entry["level"] != "warning" {
		t.Errorf("level field = %v, want 'warning'", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp field missing")
	}
}

func TestWithModule(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf).WithModule("orders")

	log.Info("fetching")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["module"] != "orders" {
		t.Errorf("module field = %v, want orders", entry["module"])
	}
}

func TestNewWithOptionsWithoutToken(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithOptions("info", &buf, Options{})

	log.Info("plain")
	if !strings.Contains(buf.String(), "plain") {
		t.Error("logger without Better Stack token should still write JSON output")
	}
}

func TestMultiHandlerFanOut(t *testing.T) {
	t.Parallel()
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	log := slog.New(h)

	log.Info("fan out")

	if !strings.Contains(a.String(), "fan out") || !strings.Contains(b.String(), "fan out") {
		t.Error("record was not delivered to all handlers")
	}
}

func TestMultiHandlerSkipsNil(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewMultiHandler(nil, slog.NewJSONHandler(&buf, nil))

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("MultiHandler with one real handler should be enabled at info")
	}
}
