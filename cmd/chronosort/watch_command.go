package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chronosort/internal/executor"
	"chronosort/internal/logging"
	"chronosort/internal/organize"
	"chronosort/internal/planner"
	"chronosort/internal/scanner"
	"chronosort/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "watch <source>",
		Short: "Organize the source directory continuously as files arrive",
		Long: `Watch holds a single-instance lock on the source, then reruns the
organize pipeline after each debounced burst of filesystem events. Files
younger than the configured settle age are left for a later pass so
half-written files are never picked up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyConfigDefaults(cmd, cfg, &flags)

			octx, err := buildRunContext(cfg, &flags, args[0])
			if err != nil {
				return err
			}
			// Watch mode is unattended; ask-strategy conflicts degrade to
			// skip rather than stalling the loop on a prompt.
			octx.Prompter = nil

			logger, cleanup, err := newLogger(cfg, levelOverride(&flags))
			if err != nil {
				return err
			}
			defer cleanup()
			log := logging.WithComponent(logger, "watch")

			settle := time.Duration(cfg.Watch.SettleSeconds) * time.Second
			run := func(runCtx context.Context) error {
				entries, err := scanner.Scan(runCtx, octx, logger)
				if err != nil {
					return err
				}
				entries = settled(entries, settle)
				moves, err := planner.Plan(entries, octx, logger)
				if err != nil {
					return err
				}
				summary, err := executor.Execute(runCtx, moves, octx, logger)
				log.Info("run completed",
					logging.Int("moved", summary.Moved),
					logging.Int("skipped", summary.Skipped),
					logging.Int("errors", summary.Errors))
				return err
			}

			svc, err := watcher.New(octx.SourceRoot, cfg.Watch.LockDir,
				time.Duration(cfg.Watch.DebounceSeconds)*time.Second, run, logger)
			if err != nil {
				return err
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = svc.Start(sigCtx)
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Watch stopped.")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Destination root (default <source>/organized)")
	cmd.Flags().StringVar(&flags.dateSource, "date-source", "", "Timestamp to organize by: created or modified")
	cmd.Flags().IntVarP(&flags.depth, "depth", "d", 0, "Date directory levels: 1, 2, or 3")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "", "Conflict handling: skip, overwrite, or rename")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "Base-name globs a file must match")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "Base-name globs that drop a file")
	cmd.Flags().BoolVar(&flags.hidden, "hidden", false, "Include hidden files")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "Recursion bound (hard ceiling 100)")
	cmd.Flags().BoolVar(&flags.cleanEmpty, "clean-empty", false, "Remove emptied source directories after each run")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Abort a run on its first error")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Only errors and per-run summaries")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every move with full detail")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

// settled drops entries whose files changed more recently than the settle
// window.
func settled(entries []organize.Entry, settle time.Duration) []organize.Entry {
	if settle <= 0 {
		return entries
	}
	cutoff := time.Now().Add(-settle)
	kept := entries[:0]
	for _, entry := range entries {
		info, err := os.Stat(entry.Path)
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
