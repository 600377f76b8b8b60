package organize

import (
	"fmt"
	"strings"
	"time"
)

// DateSource selects which file timestamp drives the target directory.
type DateSource int

const (
	// DateModified uses the file's modification time.
	DateModified DateSource = iota
	// DateCreated uses the file's creation (birth) time where the platform
	// exposes one, falling back to the modification time where it does not.
	DateCreated
)

// ParseDateSource maps a configuration string to a DateSource.
func ParseDateSource(value string) (DateSource, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "modified", "":
		return DateModified, nil
	case "created":
		return DateCreated, nil
	default:
		return DateModified, fmt.Errorf("date source: unsupported value %q (want created or modified)", value)
	}
}

func (d DateSource) String() string {
	if d == DateCreated {
		return "created"
	}
	return "modified"
}

// Strategy is the closed four-way conflict resolution policy. There is no
// fifth state: Ask degrades to Skip when no prompter is attached.
type Strategy int

const (
	StrategySkip Strategy = iota
	StrategyOverwrite
	StrategyRename
	StrategyAsk
)

// ParseStrategy maps a configuration string to a Strategy.
func ParseStrategy(value string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "skip", "":
		return StrategySkip, nil
	case "overwrite":
		return StrategyOverwrite, nil
	case "rename":
		return StrategyRename, nil
	case "ask":
		return StrategyAsk, nil
	default:
		return StrategySkip, fmt.Errorf("conflict strategy: unsupported value %q (want skip, overwrite, rename, or ask)", value)
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyOverwrite:
		return "overwrite"
	case StrategyRename:
		return "rename"
	case StrategyAsk:
		return "ask"
	default:
		return "skip"
	}
}

// Verbosity controls per-move output volume. It is passed down explicitly;
// the pipeline never mutates process-wide logger state.
type Verbosity int

const (
	VerbosityNormal Verbosity = iota
	VerbosityQuiet
	VerbosityVerbose
)

// Prompter answers yes/no conflict questions for the ask strategy. The core
// never reads a terminal directly; the CLI wrapper supplies an
// implementation only when attached to an interactive terminal.
type Prompter interface {
	Confirm(question string) bool
}

// MaxScanDepth is the hard recursion ceiling. Directories nested deeper are
// skipped with a warning regardless of configuration.
const MaxScanDepth = 100

// Context is the full configuration for one organize run. Constructed once
// from external input and passed by reference through every stage.
type Context struct {
	// SourceRoot is the canonical absolute directory being organized.
	SourceRoot string
	// OutputRoot is the canonical absolute destination root. Defaults to
	// <SourceRoot>/organized when the caller leaves it empty.
	OutputRoot string
	// DateSource selects the timestamp used to compute target directories.
	DateSource DateSource
	// Depth is the number of date-derived directory levels: 1 = YYYYMMDD,
	// 2 = YYYY/YYYYMMDD, 3 = YYYY/YYYYMM/YYYYMMDD.
	Depth int
	// Strategy resolves target-path conflicts.
	Strategy Strategy
	// IncludeGlobs, when non-empty, requires a file's base name to match at
	// least one pattern. Matching is case-sensitive.
	IncludeGlobs []string
	// ExcludeGlobs drops any file whose base name matches, regardless of
	// include matches.
	ExcludeGlobs []string
	// IncludeHidden scans dot-prefixed entries when set.
	IncludeHidden bool
	// Recursive descends into subdirectories.
	Recursive bool
	// MaxDepth bounds recursion; clamped to MaxScanDepth.
	MaxDepth int
	// CleanEmptyDirs removes now-empty source directories after the run.
	CleanEmptyDirs bool
	// FailFast aborts on the first error instead of skipping and counting.
	FailFast bool
	// Verbosity controls per-move output.
	Verbosity Verbosity
	// Prompter handles ask-strategy questions; nil means non-interactive and
	// ask behaves as skip.
	Prompter Prompter
}

// EffectiveMaxDepth returns the configured recursion bound clamped to the
// hard ceiling. A non-recursive run always reports depth zero.
func (c *Context) EffectiveMaxDepth() int {
	if !c.Recursive {
		return 0
	}
	if c.MaxDepth <= 0 || c.MaxDepth > MaxScanDepth {
		return MaxScanDepth
	}
	return c.MaxDepth
}

// DirIdentity identifies a directory by device and inode. The scanner records
// visited identities to defend against hard-link and bind-mount cycles that
// never manifest as symlinks.
type DirIdentity struct {
	Dev uint64
	Ino uint64
}

// Entry is one scanned candidate file. Immutable once created; produced only
// by the scanner and consumed by the planner.
type Entry struct {
	// Path is the absolute source path.
	Path string
	// Parent identifies the directory the entry was discovered in.
	Parent DirIdentity
	// Timestamp is the chosen date per Context.DateSource.
	Timestamp time.Time
	// Size is the file size in bytes.
	Size int64
}

// Resolution is the planner's decision for one move.
type Resolution int

const (
	// ResolveProceed moves the file to the resolved target.
	ResolveProceed Resolution = iota
	// ResolveSkip leaves the source untouched.
	ResolveSkip
	// ResolveRenamed moves the file to a suffixed alternate target.
	ResolveRenamed
)

func (r Resolution) String() string {
	switch r {
	case ResolveSkip:
		return "skip"
	case ResolveRenamed:
		return "renamed"
	default:
		return "proceed"
	}
}

// ConflictReason records why a target needed conflict resolution.
type ConflictReason int

const (
	// ConflictNone means the target was free.
	ConflictNone ConflictReason = iota
	// ConflictExistsOnDisk means the target already existed in the
	// destination tree when the plan was computed.
	ConflictExistsOnDisk
	// ConflictDuplicateInRun means another entry in the same run computed
	// the same target.
	ConflictDuplicateInRun
)

func (c ConflictReason) String() string {
	switch c {
	case ConflictExistsOnDisk:
		return "exists on disk"
	case ConflictDuplicateInRun:
		return "duplicate in run"
	default:
		return "none"
	}
}

// Move is one planner decision, consumed read-only by the executor.
type Move struct {
	// Source is the absolute source path.
	Source string
	// RawTarget is the computed target before canonicalization; it may still
	// contain relative segments contributed by configuration.
	RawTarget string
	// Target is the resolved path the executor writes to.
	Target string
	// Resolution is the planner's decision.
	Resolution Resolution
	// Reason records the conflict that forced the decision, if any.
	Reason ConflictReason
	// Overwrite marks a proceed move that must atomically replace an
	// existing destination file.
	Overwrite bool
}

// Summary aggregates executor counters. Immutable result value.
type Summary struct {
	Moved       int
	Skipped     int
	Errors      int
	DirsCreated int
}

// Total returns the number of moves the executor considered.
func (s Summary) Total() int {
	return s.Moved + s.Skipped + s.Errors
}
