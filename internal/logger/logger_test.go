package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "mentio.log")
	if err := Setup(path, slog.LevelInfo); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	slog.Info("hello from test", "n", 1)
	slog.Debug("filtered out")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "hello from test") {
		t.Errorf("log should contain info message, got %q", got)
	}
	if strings.Contains(got, "filtered out") {
		t.Errorf("debug message should be filtered at info level, got %q", got)
	}
	if !strings.Contains(got, "app=mentio") {
		t.Errorf("log should carry app attribute, got %q", got)
	}
}

func TestDefaultPath(t *testing.T) {
	if got := filepath.Base(DefaultPath()); got != "mentio.log" {
		t.Errorf("DefaultPath basename = %q, want mentio.log", got)
	}
}
