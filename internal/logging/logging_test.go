package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" debug ", slog.LevelDebug},

		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo}, // default

		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},

		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},

		{"invalid", slog.LevelInfo}, // default
		{"trace", slog.LevelInfo},   // unsupported, default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLogLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should return a logger")
	}
}

func TestNew_JSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	logger := New()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("LOG_LEVEL=debug should enable debug logging")
	}
}

func TestSetDefault(t *testing.T) {
	logger := SetDefault()
	if logger == nil {
		t.Fatal("SetDefault() should return a logger")
	}

	if slog.Default() == nil {
		t.Error("slog.Default() should not be nil after SetDefault()")
	}
}
