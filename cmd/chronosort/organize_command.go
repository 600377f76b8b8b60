package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"chronosort/internal/config"
	"chronosort/internal/executor"
	"chronosort/internal/organize"
	"chronosort/internal/pathutil"
	"chronosort/internal/planner"
	"chronosort/internal/scanner"
)

type organizeFlags struct {
	output     string
	dateSource string
	depth      int
	onConflict string
	include    []string
	exclude    []string
	hidden     bool
	recursive  bool
	maxDepth   int
	cleanEmpty bool
	failFast   bool
	quiet      bool
	verbose    bool
	dryRun     bool
	yes        bool
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var flags organizeFlags

	cmd := &cobra.Command{
		Use:   "organize <source>",
		Short: "Relocate files into a date-based destination tree",
		Long: `Organize scans the source directory, plans one move per file into a
YYYY/YYYYMM/YYYYMMDD layout under the output root, resolves naming conflicts
per the configured strategy, and applies the plan with atomic per-file moves.`,
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

			logger, cleanup, err := newLogger(cfg, levelOverride(&flags))
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := scanner.Scan(cmd.Context(), octx, logger)
			if err != nil {
				return err
			}
			moves, err := planner.Plan(entries, octx, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.dryRun {
				fmt.Fprintln(out, renderPlanTable(moves))
				fmt.Fprintf(out, "Dry run: %d file(s) scanned, %d move(s) planned.\n", len(entries), countProceeding(moves))
				return nil
			}

			if !flags.yes && interactiveTerminal() && countProceeding(moves) > 0 {
				fmt.Fprintln(out, renderPlanTable(moves))
				prompter := newStdioPrompter()
				if !prompter.Confirm(fmt.Sprintf("Apply %d move(s)?", countProceeding(moves))) {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			summary, execErr := executor.Execute(cmd.Context(), moves, octx, logger)
			// The summary prints even when execution aborted, quiet mode
			// included, so the outcome is always inspectable.
			fmt.Fprintf(out, "Moved %d, skipped %d, errors %d, directories created %d\n",
				summary.Moved, summary.Skipped, summary.Errors, summary.DirsCreated)
			return execErr
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Destination root (default <source>/organized)")
	cmd.Flags().StringVar(&flags.dateSource, "date-source", "", "Timestamp to organize by: created or modified")
	cmd.Flags().IntVarP(&flags.depth, "depth", "d", 0, "Date directory levels: 1, 2, or 3")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "", "Conflict handling: skip, overwrite, rename, or ask")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "Base-name globs a file must match")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "Base-name globs that drop a file")
	cmd.Flags().BoolVar(&flags.hidden, "hidden", false, "Include hidden files")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "Recursion bound (hard ceiling 100)")
	cmd.Flags().BoolVar(&flags.cleanEmpty, "clean-empty", false, "Remove emptied source directories afterwards")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Abort on the first error")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Only errors and the final summary")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every move with full detail")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Plan and preview without touching anything")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	return cmd
}

// applyConfigDefaults fills flags the user did not set from the loaded
// configuration file.
func applyConfigDefaults(cmd *cobra.Command, cfg *config.Config, flags *organizeFlags) {
	if !cmd.Flags().Changed("output") {
		flags.output = cfg.Paths.OutputDir
	}
	if !cmd.Flags().Changed("date-source") {
		flags.dateSource = cfg.Organize.DateSource
	}
	if !cmd.Flags().Changed("depth") {
		flags.depth = cfg.Organize.Depth
	}
	if !cmd.Flags().Changed("on-conflict") {
		flags.onConflict = cfg.Organize.OnConflict
	}
	if !cmd.Flags().Changed("include") {
		flags.include = cfg.Organize.Include
	}
	if !cmd.Flags().Changed("exclude") {
		flags.exclude = cfg.Organize.Exclude
	}
	if !cmd.Flags().Changed("hidden") {
		flags.hidden = cfg.Organize.IncludeHidden
	}
	if !cmd.Flags().Changed("recursive") {
		flags.recursive = cfg.Organize.Recursive
	}
	if !cmd.Flags().Changed("max-depth") {
		flags.maxDepth = cfg.Organize.MaxDepth
	}
	if !cmd.Flags().Changed("clean-empty") {
		flags.cleanEmpty = cfg.Organize.CleanEmptyDirs
	}
	if !cmd.Flags().Changed("fail-fast") {
		flags.failFast = cfg.Organize.FailFast
	}
}

// buildRunContext validates the inputs and assembles the immutable run
// configuration the pipeline stages share.
func buildRunContext(cfg *config.Config, flags *organizeFlags, source string) (*organize.Context, error) {
	expanded, err := config.ExpandPath(source)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "resolve source", "Source directory could not be resolved", err)
	}
	canonicalSource, err := pathutil.Canonicalize(expanded)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "resolve source", "Source directory could not be resolved", err)
	}
	info, err := os.Stat(canonicalSource)
	if err != nil || !info.IsDir() {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "validate source",
			fmt.Sprintf("Source %q is not an accessible directory", source), err)
	}
	if err := unix.Access(canonicalSource, unix.W_OK); err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "validate source",
			fmt.Sprintf("Source %q is not writable", source), err)
	}

	output := flags.output
	if output == "" {
		output = filepath.Join(canonicalSource, "organized")
	} else if output, err = config.ExpandPath(output); err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "resolve output", "Output directory could not be resolved", err)
	}
	canonicalOutput, err := pathutil.Canonicalize(output)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "resolve output", "Output directory could not be resolved", err)
	}
	if info, err := os.Stat(canonicalOutput); err == nil && info.IsDir() {
		if err := unix.Access(canonicalOutput, unix.W_OK); err != nil {
			return nil, organize.Wrap(organize.ErrConfiguration, "setup", "validate output",
				fmt.Sprintf("Output %q is not writable", output), err)
		}
	}

	dateSource, err := organize.ParseDateSource(flags.dateSource)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "parse date source", err.Error(), nil)
	}
	strategy, err := organize.ParseStrategy(flags.onConflict)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "parse strategy", err.Error(), nil)
	}
	if flags.depth < 1 || flags.depth > 3 {
		return nil, organize.Wrap(organize.ErrConfiguration, "setup", "validate depth",
			fmt.Sprintf("Depth must be 1, 2, or 3 (got %d)", flags.depth), nil)
	}

	octx := &organize.Context{
		SourceRoot:     canonicalSource,
		OutputRoot:     canonicalOutput,
		DateSource:     dateSource,
		Depth:          flags.depth,
		Strategy:       strategy,
		IncludeGlobs:   flags.include,
		ExcludeGlobs:   flags.exclude,
		IncludeHidden:  flags.hidden,
		Recursive:      flags.recursive,
		MaxDepth:       flags.maxDepth,
		CleanEmptyDirs: flags.cleanEmpty,
		FailFast:       flags.failFast,
		Verbosity:      verbosity(flags),
	}
	if strategy == organize.StrategyAsk && interactiveTerminal() && !flags.dryRun {
		octx.Prompter = newStdioPrompter()
	}
	return octx, nil
}

func verbosity(flags *organizeFlags) organize.Verbosity {
	switch {
	case flags.quiet:
		return organize.VerbosityQuiet
	case flags.verbose:
		return organize.VerbosityVerbose
	default:
		return organize.VerbosityNormal
	}
}

func levelOverride(flags *organizeFlags) string {
	switch {
	case flags.quiet:
		return "error"
	case flags.verbose:
		return "debug"
	default:
		return ""
	}
}

func countProceeding(moves []organize.Move) int {
	count := 0
	for _, move := range moves {
		if move.Resolution != organize.ResolveSkip {
			count++
		}
	}
	return count
}

func renderPlanTable(moves []organize.Move) string {
	rows := make([][]string, 0, len(moves))
	for _, move := range moves {
		rows = append(rows, []string{
			move.Source,
			move.Target,
			move.Resolution.String(),
			move.Reason.String(),
		})
	}
	return renderTable(
		[]string{"Source", "Target", "Action", "Conflict"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
