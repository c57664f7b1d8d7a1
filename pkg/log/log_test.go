package log

import (
	"bytes"
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
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	defer func() { logger = nil }()

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Errorf("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "shown 3") {
		t.Errorf("expected warn and error lines, got: %s", out)
	}
	if !strings.Contains(out, "log_test.go") {
		t.Errorf("expected caller source in output, got: %s", out)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	logger = nil
	Debugf("nothing")
	Errorf("nothing")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "error")
	defer func() { logger = nil }()

	Warnf("before")
	SetLevel("debug")
	Debugf("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("warn line should be filtered at error level: %s", out)
	}
	if !strings.Contains(out, "after") {
		t.Errorf("expected debug line after SetLevel, got: %s", out)
	}
}
