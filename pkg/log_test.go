package pkg

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	original := GetLogLevel()
	defer SetLogLevel(original)

	tests := []struct {
		name  string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLogLevel(tt.level)
			if got := GetLogLevel(); got != tt.level {
				t.Errorf("GetLogLevel() = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	if logger == nil {
		t.Fatal("NewJSONLogger returned nil")
	}

	logger.Info("slot published")
	if !strings.Contains(buf.String(), `"msg":"slot published"`) {
		t.Errorf("JSON log output missing message: %s", buf.String())
	}
}

func TestLogHelpers_Component(t *testing.T) {
	original := DefaultLogger
	defer SetLogger(original)

	tests := []struct {
		name      string
		log       func(Component, string, ...any)
		component Component
	}{
		{"debug", LogDebug, ComponentEngine},
		{"info", LogInfo, ComponentChannel},
		{"warn", LogWarn, ComponentRing},
		{"error", LogError, ComponentSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			tt.log(tt.component, tt.name+" message", "slot", 7)
			output := buf.String()
			if !strings.Contains(output, tt.name+" message") {
				t.Errorf("log missing message: %s", output)
			}
			if !strings.Contains(output, "component="+string(tt.component)) {
				t.Errorf("log missing component: %s", output)
			}
			if !strings.Contains(output, "slot=7") {
				t.Errorf("log missing attribute: %s", output)
			}
		})
	}
}

func TestSetLogFormat(t *testing.T) {
	original := DefaultLogger
	originalLevel := GetLogLevel()
	defer func() {
		SetLogger(original)
		SetLogLevel(originalLevel)
	}()
	SetLogLevel(slog.LevelInfo)

	var buf bytes.Buffer
	SetLogFormat(LogFormatJSON, &buf)
	LogInfo(ComponentExport, "mapped")
	if !strings.Contains(buf.String(), `"component":"export"`) {
		t.Errorf("JSON format not applied: %s", buf.String())
	}

	buf.Reset()
	SetLogFormat(LogFormatText, &buf)
	LogInfo(ComponentExport, "mapped")
	if !strings.Contains(buf.String(), "component=export") {
		t.Errorf("text format not applied: %s", buf.String())
	}
}

func TestLogLevelFilters(t *testing.T) {
	original := DefaultLogger
	defer SetLogger(original)

	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	LogDebug(ComponentEngine, "hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message should be filtered: %s", buf.String())
	}
}
