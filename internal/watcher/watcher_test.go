package watcher

import (
	"context"
	"testing"

	"github.com/nguyentantai21042004/frame-align/internal/logger"
)

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"talk.mp4", true},
		{"talk.MOV", true},
		{"clip.mkv", true},
		{"notes.txt", false},
		{"archive.srt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isVideoFile(tt.path); got != tt.want {
				t.Errorf("isVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewMissingDir(t *testing.T) {
	handler := func(ctx context.Context, path string) error { return nil }

	_, err := New("/definitely/not/a/real/dir", handler, logger.New("error"), 2)
	if err == nil {
		t.Error("New() should fail for a missing input directory")
	}
}

func TestNewDefaultsConcurrency(t *testing.T) {
	handler := func(ctx context.Context, path string) error { return nil }

	w, err := New(t.TempDir(), handler, logger.New("error"), 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	impl := w.(*implWatcher)
	if cap(impl.semaphore) != 2 {
		t.Errorf("semaphore capacity = %d, want default 2", cap(impl.semaphore))
	}
}
