package summarizer

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/frame-align/internal/align"
	"github.com/nguyentantai21042004/frame-align/internal/subtitle"
)

const (
	fontName  = "Times New Roman"
	bodySize  = 12
	titleSize = 16
)

// transcriptToDocx writes the aligned transcript as a docx document, one
// paragraph per segment prefixed with its timestamp and frame range.
func transcriptToDocx(title string, entries []align.Entry, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for _, entry := range entries {
		start, err := subtitle.FormatTimestamp(entry.StartTime)
		if err != nil {
			return fmt.Errorf("format timestamp: %w", err)
		}

		p := doc.AddParagraph("")
		prefix := fmt.Sprintf("%s (frames %d-%d)  ", start, entry.StartFrame, entry.EndFrame)
		addRun(p, prefix, true, bodySize)
		addRun(p, entry.Text, false, bodySize)
	}

	return doc.SaveTo(outputPath)
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
