package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chronosort/internal/config"
	"chronosort/internal/fileutil"
	"chronosort/internal/inspect"
	"chronosort/internal/pathutil"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <dir>",
		Short: "Count files and total size under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveDirArg(args[0])
			if err != nil {
				return err
			}
			stats, err := inspect.CollectStats(root)
			if err != nil {
				return fmt.Errorf("collect stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d file(s) in %d director(ies), %s total\n",
				root, stats.Files, stats.Dirs, humanize.Bytes(uint64(stats.TotalBytes)))

			if stats.Files == 0 {
				return nil
			}
			rows := make([][]string, 0, len(stats.ByExtension))
			for _, ext := range stats.Extensions() {
				rows = append(rows, []string{ext, strconv.Itoa(stats.ByExtension[ext])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Extension", "Files"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <dir> <keyword>",
		Short: "Find files whose name contains a keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveDirArg(args[0])
			if err != nil {
				return err
			}
			matches, err := inspect.Search(root, args[1])
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, match := range matches {
				fmt.Fprintln(out, match)
			}
			fmt.Fprintf(out, "%d match(es)\n", len(matches))
			return nil
		},
	}
}

func newBackupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Write a timestamped, checksum-verified copy next to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			backup, err := fileutil.BackupFile(path, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up to %s\n", backup)
			return nil
		},
	}
}

func resolveDirArg(arg string) (string, error) {
	expanded, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	return pathutil.Canonicalize(expanded)
}
