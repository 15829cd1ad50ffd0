package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/frame-align/internal/processor"
	"github.com/nguyentantai21042004/frame-align/internal/store"
	"github.com/nguyentantai21042004/frame-align/internal/watcher"
	"github.com/nguyentantai21042004/frame-align/pkg/executor"
)

func newWatchCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and align every new video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			log := cmdCtx.newLogger()
			ctx := cmd.Context()

			if err := ensureDirectories(cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Temp); err != nil {
				return err
			}

			// One watcher per machine; a second instance would race the
			// first one for the same input files.
			lock := flock.New(filepath.Join(cfg.Paths.Temp, "framealign.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another framealign watcher is already running")
			}
			defer lock.Unlock()

			catalog, err := store.Open(cfg.Paths.Database)
			if err != nil {
				return err
			}
			defer catalog.Close()

			proc := processor.New(cfg, executor.New(), log, catalog)

			w, err := watcher.New(cfg.Paths.Input, proc.Process, log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				if err := w.Start(ctx); err != nil && err != context.Canceled {
					errChan <- err
				}
			}()

			log.Info(ctx, "Watching %s, writing alignments to %s", cfg.Paths.Input, cfg.Paths.Output)
			log.Info(ctx, "Press Ctrl+C to stop")

			select {
			case <-sigChan:
				log.Info(ctx, "Shutdown signal received")
			case err := <-errChan:
				return err
			}

			cancel()
			return nil
		},
	}
}

func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
