package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// probeVideoFPS returns the nominal frame rate reported by the
// container: avg_frame_rate when present, r_frame_rate otherwise.
// Variable-frame-rate sources can report an inaccurate value here, which
// is why the aligner treats it as metadata only.
func (p *implProcessor) probeVideoFPS(ctx context.Context, videoPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate,r_frame_rate",
		"-of", "json",
		videoPath,
	}

	out, err := p.executor.Execute(ctx, "ffprobe", args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe video stream: %w", err)
	}

	var probe struct {
		Streams []struct {
			AvgFrameRate string `json:"avg_frame_rate"`
			RFrameRate   string `json:"r_frame_rate"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return 0, fmt.Errorf("no video stream in %s", videoPath)
	}

	stream := probe.Streams[0]
	if fps, ok := parseFrameRate(stream.AvgFrameRate); ok {
		return fps, nil
	}
	if fps, ok := parseFrameRate(stream.RFrameRate); ok {
		return fps, nil
	}

	return 0, fmt.Errorf("no usable frame rate for %s (avg %q, r %q)",
		videoPath, stream.AvgFrameRate, stream.RFrameRate)
}

// parseFrameRate parses ffprobe's rational "num/denom" notation.
func parseFrameRate(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0/0" {
		return 0, false
	}

	num, denom, found := strings.Cut(value, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if !found {
		return n, n > 0
	}

	d, err := strconv.ParseFloat(denom, 64)
	if err != nil || d == 0 {
		return 0, false
	}

	fps := n / d
	return fps, fps > 0
}

// extractFrames samples JPEG frames at the configured extraction rate
// and returns how many were materialized. Numbering starts at 0 so file
// names line up with alignment frame indices.
func (p *implProcessor) extractFrames(ctx context.Context, videoPath, frameDir string) (int, error) {
	if err := os.MkdirAll(frameDir, 0755); err != nil {
		return 0, fmt.Errorf("create frame dir: %w", err)
	}

	p.logger.Info(ctx, "Extracting frames at %.3f fps: %s", p.cfg.Extraction.FPS, videoPath)

	// The command runs inside frameDir so the output pattern stays
	// relative; the input path must therefore be absolute.
	absVideoPath, err := filepath.Abs(videoPath)
	if err != nil {
		return 0, fmt.Errorf("resolve video path: %w", err)
	}

	args := []string{
		"-i", absVideoPath,
		"-vf", fmt.Sprintf("fps=%g", p.cfg.Extraction.FPS),
		"-qscale:v", strconv.Itoa(p.cfg.Extraction.JPEGQuality),
		"-start_number", "0",
		"-y",
		"frame_%04d.jpg",
	}

	if _, err := p.executor.ExecuteInDir(ctx, frameDir, "ffmpeg", args...); err != nil {
		return 0, fmt.Errorf("ffmpeg extract frames: %w", err)
	}

	count, err := countFrames(frameDir)
	if err != nil {
		return 0, err
	}

	p.logger.Info(ctx, "Extracted %d frames into %s", count, frameDir)
	return count, nil
}

func countFrames(frameDir string) (int, error) {
	entries, err := os.ReadDir(frameDir)
	if err != nil {
		return 0, fmt.Errorf("read frame dir: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "frame_") && strings.HasSuffix(name, ".jpg") {
			count++
		}
	}
	return count, nil
}
