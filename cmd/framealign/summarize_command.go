package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/frame-align/internal/summarizer"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize completed alignments with Gemini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.newLogger()

			if destDir == "" {
				destDir = filepath.Join(cfg.Paths.Output, "summaries")
			}

			s := summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
			return s.SummarizeAll(cmd.Context(), cfg.Paths.Output, destDir)
		},
	}

	cmd.Flags().StringVar(&destDir, "dest", "", "Destination directory for summaries (default <output>/summaries)")
	return cmd
}
