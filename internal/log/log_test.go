package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Run("text output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{Level: slog.LevelWarn})

		logger.Info("hidden")
		logger.Warn("shown", "key", "value")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("info entry should be filtered at warn level")
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
			t.Errorf("missing warn entry, got %q", out)
		}
	})

	t.Run("json output is valid json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, Config{JSON: true})

		logger.Info("entry", "rows", 42)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if entry["msg"] != "entry" {
			t.Errorf("msg = %v, want entry", entry["msg"])
		}
		if entry["rows"] != float64(42) {
			t.Errorf("rows = %v, want 42", entry["rows"])
		}
	})
}
