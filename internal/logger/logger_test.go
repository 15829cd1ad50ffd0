package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		minLevel string
		logAt    string
		want     bool
	}{
		{"debug logs at debug level", "debug", "debug", true},
		{"info logs at debug level", "debug", "info", true},
		{"debug suppressed at info level", "info", "debug", false},
		{"info logs at info level", "info", "info", true},
		{"warn suppressed at error level", "error", "warn", false},
		{"error always logs", "debug", "error", true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.minLevel)

			switch tt.logAt {
			case "debug":
				log.Debug(ctx, "message")
			case "info":
				log.Info(ctx, "message")
			case "warn":
				log.Warn(ctx, "message")
			case "error":
				log.Error(ctx, "message")
			}

			got := buf.Len() > 0
			if got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Info(context.Background(), "processed %s with %d segments", "talk.mp4", 42)

	out := buf.String()
	if !strings.Contains(out, "[INFO] processed talk.mp4 with 42 segments") {
		t.Errorf("unexpected output: %q", out)
	}
}
