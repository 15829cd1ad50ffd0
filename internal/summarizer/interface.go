package summarizer

import "context"

// Summarizer reads alignment documents and produces LLM-generated
// markdown summaries plus docx transcripts.
type Summarizer interface {
	SummarizeAll(ctx context.Context, outputDir, destDir string) error
}
