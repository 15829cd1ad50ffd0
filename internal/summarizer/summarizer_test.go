package summarizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/frame-align/internal/align"
	"github.com/nguyentantai21042004/frame-align/internal/logger"
)

func TestAnnotatedTranscript(t *testing.T) {
	entries := []align.Entry{
		{Text: "hello", StartTime: 0.52, EndTime: 2.34, StartFrame: 0, EndFrame: 2, VideoFPS: 30},
		{Text: "world", StartTime: 2.34, EndTime: 4.10, StartFrame: 2, EndFrame: 4, VideoFPS: 30},
	}

	got := annotatedTranscript(entries)
	want := "[00:00:00,520, frames 0-2] hello\n[00:00:02,340, frames 2-4] world\n"
	if got != want {
		t.Errorf("annotatedTranscript() =\n%q\nwant\n%q", got, want)
	}
}

func TestDiscoverAlignments(t *testing.T) {
	dir := t.TempDir()

	// Two processed videos, one unrelated directory, one stray file.
	for _, name := range []string{"talk-a", "talk-b"} {
		videoDir := filepath.Join(dir, name)
		if err := os.MkdirAll(videoDir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := align.WriteDocument(filepath.Join(videoDir, "alignment.json"), nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "empty-dir"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stray.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New([]string{"key"}, "", logger.New("error")).(*implSummarizer)

	found, err := s.discoverAlignments(dir)
	if err != nil {
		t.Fatalf("discoverAlignments() error = %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("found %d alignments, want 2: %v", len(found), found)
	}
	if filepath.Base(filepath.Dir(found[0])) != "talk-a" {
		t.Errorf("results not sorted: %v", found)
	}
}

func TestSummarizeAllRequiresKeys(t *testing.T) {
	s := New(nil, "", logger.New("error"))

	if err := s.SummarizeAll(t.Context(), t.TempDir(), t.TempDir()); err == nil {
		t.Error("SummarizeAll() should fail without API keys")
	}
}
