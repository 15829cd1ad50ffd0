package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/frame-align/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent alignment runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			catalog, err := store.Open(cfg.Paths.Database)
			if err != nil {
				return err
			}
			defer catalog.Close()

			runs, err := catalog.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			headers := []string{"When", "Video", "Status", "Segments", "Frames", "FPS"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.CreatedAt.Local().Format(time.DateTime),
					run.VideoPath,
					runStatusCell(run),
					strconv.Itoa(run.SegmentCount),
					strconv.Itoa(run.FrameCount),
					fmt.Sprintf("%.2f", run.VideoFPS),
				})
			}

			if isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(headers, "\t"))
				for _, row := range rows {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func runStatusCell(run store.Run) string {
	if run.Status == store.StatusFailed && run.ErrorMessage != "" {
		return run.Status + ": " + truncate(run.ErrorMessage, 40)
	}
	return run.Status
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
