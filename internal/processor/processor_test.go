package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/frame-align/internal/align"
	"github.com/nguyentantai21042004/frame-align/internal/config"
	"github.com/nguyentantai21042004/frame-align/internal/logger"
	"github.com/nguyentantai21042004/frame-align/internal/store"
)

const fakeWhisperJSON = `{
  "result": {"language": "en"},
  "transcription": [
    {"offsets": {"from": 520, "to": 2340}, "text": " hello"},
    {"offsets": {"from": 2340, "to": 4100}, "text": " world"}
  ]
}`

// fakeExecutor stands in for ffmpeg, ffprobe and whisper, materializing
// the side effects the pipeline expects from each tool.
type fakeExecutor struct {
	t          *testing.T
	hasAudio   bool
	frameCount int
	calls      []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name)

	switch name {
	case "ffprobe":
		if hasFlagValue(args, "-select_streams", "a") {
			if f.hasAudio {
				return `{"streams": [{"codec_type": "audio"}]}`, nil
			}
			return `{"streams": []}`, nil
		}
		return `{"streams": [{"avg_frame_rate": "30000/1001", "r_frame_rate": "30/1"}]}`, nil

	case "ffmpeg":
		// Audio extraction; the output file is the final argument.
		audioPath := args[len(args)-1]
		if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
			return "", err
		}
		return "", nil

	default:
		// Whisper invocation; write JSON next to the output prefix.
		prefix := flagValue(args, "--output-file")
		if prefix == "" {
			f.t.Fatalf("whisper call missing --output-file: %v", args)
		}
		if err := os.WriteFile(prefix+".json", []byte(fakeWhisperJSON), 0644); err != nil {
			return "", err
		}
		return "", nil
	}
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name)

	// Frame extraction; materialize the requested number of frames.
	for i := 0; i < f.frameCount; i++ {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.jpg", i))
		if err := os.WriteFile(path, []byte("jpg"), 0644); err != nil {
			return "", err
		}
	}
	return "", nil
}

func hasFlagValue(args []string, flag, value string) bool {
	return flagValue(args, flag) == value
}

func flagValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Whisper: config.WhisperConfig{
			BinaryPath: "./whisper",
			ModelPath:  "models/small.bin",
			Language:   "en",
		},
		Paths: config.PathsConfig{
			Input:    filepath.Join(dir, "input"),
			Output:   filepath.Join(dir, "output"),
			Temp:     filepath.Join(dir, "temp"),
			Database: filepath.Join(dir, "catalog.db"),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeTestVideo(t *testing.T, cfg *config.Config) string {
	t.Helper()

	if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
		t.Fatal(err)
	}
	videoPath := filepath.Join(cfg.Paths.Input, "talk.mp4")
	if err := os.WriteFile(videoPath, []byte("mp4"), 0644); err != nil {
		t.Fatal(err)
	}
	return videoPath
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	videoPath := writeTestVideo(t, cfg)

	catalog, err := store.Open(cfg.Paths.Database)
	if err != nil {
		t.Fatal(err)
	}
	defer catalog.Close()

	exec := &fakeExecutor{t: t, hasAudio: true, frameCount: 6}
	proc := New(cfg, exec, logger.New("error"), catalog)

	if err := proc.Process(ctx, videoPath); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	outputDir := filepath.Join(cfg.Paths.Output, "talk")

	entries, err := align.ReadDocument(filepath.Join(outputDir, "alignment.json"))
	if err != nil {
		t.Fatalf("reading alignment.json: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("alignment has %d entries, want 2", len(entries))
	}
	if entries[0].StartFrame != 0 || entries[0].EndFrame != 2 {
		t.Errorf("entry 0 frames = %d..%d, want 0..2", entries[0].StartFrame, entries[0].EndFrame)
	}
	wantFPS := 30000.0 / 1001.0
	if entries[0].VideoFPS != wantFPS {
		t.Errorf("entry 0 video fps = %v, want %v", entries[0].VideoFPS, wantFPS)
	}

	srt, err := os.ReadFile(filepath.Join(outputDir, "talk.srt"))
	if err != nil {
		t.Fatalf("reading SRT: %v", err)
	}
	if !strings.Contains(string(srt), "00:00:00,520 --> 00:00:02,340") {
		t.Errorf("SRT missing timing line:\n%s", srt)
	}

	meta, err := os.ReadFile(filepath.Join(outputDir, "metadata.json"))
	if err != nil {
		t.Fatalf("reading metadata.json: %v", err)
	}
	if !strings.Contains(string(meta), `"frame_count": 6`) {
		t.Errorf("metadata missing frame count:\n%s", meta)
	}

	runs, err := catalog.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != store.StatusCompleted {
		t.Errorf("catalog runs = %+v, want one completed run", runs)
	}
	if len(runs) == 1 && runs[0].SegmentCount != 2 {
		t.Errorf("recorded segment count = %d, want 2", runs[0].SegmentCount)
	}
}

func TestProcessNoAudio(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	videoPath := writeTestVideo(t, cfg)

	exec := &fakeExecutor{t: t, hasAudio: false, frameCount: 4}
	proc := New(cfg, exec, logger.New("error"), nil)

	if err := proc.Process(ctx, videoPath); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	outputDir := filepath.Join(cfg.Paths.Output, "talk")

	// Alignment is empty but valid, and frames were still extracted.
	data, err := os.ReadFile(filepath.Join(outputDir, "alignment.json"))
	if err != nil {
		t.Fatalf("reading alignment.json: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("alignment.json = %q, want %q", data, "[]")
	}

	srt, err := os.ReadFile(filepath.Join(outputDir, "talk.srt"))
	if err != nil {
		t.Fatalf("reading SRT: %v", err)
	}
	if len(srt) != 0 {
		t.Errorf("SRT should be empty, got %q", srt)
	}

	if !strings.Contains(strings.Join(exec.calls, " "), "ffmpeg") {
		t.Error("frames were not extracted for silent video")
	}
}

func TestProcessRecordsFailure(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	catalog, err := store.Open(cfg.Paths.Database)
	if err != nil {
		t.Fatal(err)
	}
	defer catalog.Close()

	// Probe on a missing file makes the real ffprobe fail; simulate by
	// pointing the fake at a video while breaking frame extraction.
	exec := &failingExecutor{}
	proc := New(cfg, exec, logger.New("error"), catalog)

	if err := proc.Process(ctx, filepath.Join(cfg.Paths.Input, "ghost.mp4")); err == nil {
		t.Fatal("Process() should fail when the probe fails")
	}

	runs, err := catalog.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != store.StatusFailed {
		t.Errorf("catalog runs = %+v, want one failed run", runs)
	}
}

type failingExecutor struct{}

func (e *failingExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return "", fmt.Errorf("command '%s' failed: exit status 1", name)
}

func (e *failingExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return "", fmt.Errorf("command '%s' failed: exit status 1", name)
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"30/1", 30, true},
		{"30000/1001", 30000.0 / 1001.0, true},
		{"25", 25, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"30/0", 0, false},
		{"-30/1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseFrameRate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseFrameRate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseFrameRate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
