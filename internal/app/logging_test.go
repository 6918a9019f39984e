package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"bogus", LogLevelInfo},
	}

	for _, tc := range cases {
		if got := ParseLogLevel(tc.input); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tc.input, got, tc.want)
		}
	}
}

func TestLogLevelString(t *testing.T) {
	cases := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range cases {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug and info filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn and error present, got:\n%s", out)
	}
}

func TestLoggerIncludesPrefixAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf, Prefix: "termquest"})

	l.Info("hello %s", "world")

	out := buf.String()
	if !strings.Contains(out, "[INFO] termquest: hello world") {
		t.Errorf("unexpected log line: %q", out)
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LoggerConfig{Level: LogLevelError, Output: &buf})

	l.Info("dropped")
	l.SetLevel(LogLevelDebug)
	l.Debug("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("expected first message filtered, got:\n%s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected second message after SetLevel, got:\n%s", out)
	}
}

func TestLoggerDefaultsToDiscard(t *testing.T) {
	l := NewLogger(LoggerConfig{Level: LogLevelDebug})
	l.Info("goes nowhere") // must not panic
}

func TestOpenDebugLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	file, err := OpenDebugLog(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	if !strings.HasPrefix(filepath.Base(file.Name()), "console_debug_") {
		t.Errorf("unexpected log file name: %s", file.Name())
	}
	if _, err := os.Stat(file.Name()); err != nil {
		t.Errorf("expected log file on disk: %v", err)
	}
}
