package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/frame-align/internal/align"
	"github.com/nguyentantai21042004/frame-align/internal/subtitle"
)

const summaryPrompt = `You are reviewing the transcript of a video. Each line carries the
spoken text together with the frame indices that were sampled while it
was said, so the summary can point a reader at the right frames.

Write a markdown summary that:
- opens with a one-sentence title describing the video's topic
- lists the main points in order of appearance
- cites the frame range (e.g. "frames 12-18") for each main point
- closes with a short "Key moments" list of the most important frame ranges

Transcript:
---
%s
---`

// SummarizeAll walks outputDir for alignment documents produced by the
// pipeline, asks Gemini for a summary of each, and writes one .md and
// one .docx transcript per video into destDir.
func (s *implSummarizer) SummarizeAll(ctx context.Context, outputDir, destDir string) error {
	if len(s.apiKeys) == 0 {
		return fmt.Errorf("no Gemini API keys configured")
	}

	alignments, err := s.discoverAlignments(outputDir)
	if err != nil {
		return fmt.Errorf("discover alignments: %w", err)
	}

	if len(alignments) == 0 {
		s.logger.Info(ctx, "No alignment documents found under %s", outputDir)
		return nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	s.logger.Info(ctx, "Found %d alignment documents to summarize", len(alignments))

	successCount := 0
	failCount := 0

	for i, alignmentPath := range alignments {
		videoName := filepath.Base(filepath.Dir(alignmentPath))
		s.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(alignments), videoName)

		entries, err := align.ReadDocument(alignmentPath)
		if err != nil {
			s.logger.Error(ctx, "Failed to read %s: %v", alignmentPath, err)
			failCount++
			continue
		}
		if len(entries) == 0 {
			s.logger.Warn(ctx, "Skipping %s: empty alignment", videoName)
			continue
		}

		transcriptText := annotatedTranscript(entries)

		summary, err := s.callGemini(ctx, transcriptText)
		if err != nil {
			s.logger.Error(ctx, "Failed to summarize %s: %v", videoName, err)
			failCount++
			continue
		}

		md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
			videoName,
			time.Now().Format("2006-01-02 15:04"),
			strings.TrimSpace(summary),
		)

		mdPath := filepath.Join(destDir, videoName+".md")
		if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
			s.logger.Error(ctx, "Failed to write %s: %v", mdPath, err)
			failCount++
			continue
		}

		docxPath := filepath.Join(destDir, videoName+".docx")
		if err := transcriptToDocx(videoName, entries, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to write docx transcript for %s: %v", videoName, err)
		}

		s.logger.Info(ctx, "[DONE] %s -> %s", videoName, mdPath)
		successCount++
	}

	s.logger.Info(ctx, "Summary complete: %d success, %d failed", successCount, failCount)
	return nil
}

// annotatedTranscript renders entries as one line per segment with
// timestamp and frame range, the form the prompt asks Gemini to cite.
func annotatedTranscript(entries []align.Entry) string {
	var b strings.Builder
	for _, entry := range entries {
		start, err := subtitle.FormatTimestamp(entry.StartTime)
		if err != nil {
			start = "?"
		}
		fmt.Fprintf(&b, "[%s, frames %d-%d] %s\n", start, entry.StartFrame, entry.EndFrame, entry.Text)
	}
	return b.String()
}

// callGemini sends the transcript to Gemini and returns the summary
// text, rotating API keys on quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, transcript)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

// discoverAlignments finds alignment.json files one level below dir,
// the layout the processor writes (<output>/<video>/alignment.json).
func (s *implSummarizer) discoverAlignments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		candidate := filepath.Join(dir, entry.Name(), "alignment.json")
		if _, err := os.Stat(candidate); err == nil {
			files = append(files, candidate)
		}
	}

	sort.Strings(files)
	return files, nil
}
