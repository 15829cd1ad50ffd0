package main

import (
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/frame-align/internal/processor"
	"github.com/nguyentantai21042004/frame-align/internal/store"
	"github.com/nguyentantai21042004/frame-align/pkg/executor"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process <video>",
		Short: "Run the full alignment pipeline for one video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.newLogger()

			catalog, err := store.Open(cfg.Paths.Database)
			if err != nil {
				return err
			}
			defer catalog.Close()

			proc := processor.New(cfg, executor.New(), log, catalog)
			return proc.Process(cmd.Context(), args[0])
		},
	}
}
