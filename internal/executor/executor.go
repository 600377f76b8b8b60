package executor

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"chronosort/internal/fileutil"
	"chronosort/internal/logging"
	"chronosort/internal/organize"
	"chronosort/internal/pathutil"
)

// tempPattern names the scratch files used for atomic replacement. The dot
// prefix keeps them out of subsequent default scans.
const tempPattern = ".chronosort-*.tmp"

// Execute applies the plan in order and returns the run summary. The summary
// is valid even when an error is returned; it covers everything attempted up
// to the abort.
func Execute(ctx context.Context, moves []organize.Move, octx *organize.Context, logger *slog.Logger) (organize.Summary, error) {
	e := &exec{
		octx:   octx,
		logger: logging.WithComponent(logger, "executor"),
	}

	for _, move := range moves {
		if err := ctx.Err(); err != nil {
			return e.summary, err
		}

		if move.Resolution == organize.ResolveSkip {
			e.summary.Skipped++
			e.logMove(move, "skipped")
			continue
		}

		raceSkipped, err := e.apply(move)
		if err != nil {
			e.summary.Errors++
			e.logger.Error("move failed",
				logging.String("source", move.Source),
				logging.String("target", move.Target),
				logging.Error(err))
			if organize.IsFatal(err) {
				// Disk-full class failures will recur for every remaining
				// entry; abort instead of degrading each one to a skip.
				return e.summary, err
			}
			if octx.FailFast {
				return e.summary, err
			}
			continue
		}
		if raceSkipped {
			e.summary.Skipped++
			e.logMove(move, "skipped")
			continue
		}
		e.summary.Moved++
		e.logMove(move, "moved")
	}

	if octx.CleanEmptyDirs {
		e.cleanEmptyDirs()
	}

	return e.summary, nil
}

type exec struct {
	octx    *organize.Context
	logger  *slog.Logger
	summary organize.Summary
}

// apply performs one proceed move. It reports raceSkipped when the target
// appeared on disk after planning, which degrades to a warned skip.
func (e *exec) apply(move organize.Move) (raceSkipped bool, err error) {
	// Parent directories derive from the resolved target, never the raw one,
	// so relative or symlinked segments cannot create directories elsewhere.
	destDir := filepath.Dir(move.Target)
	created, err := e.ensureDir(destDir)
	if err != nil {
		return false, classify("create target directory", err)
	}
	e.summary.DirsCreated += created

	if !move.Overwrite {
		if _, err := os.Lstat(move.Target); err == nil {
			// A race, not an error: the plan never approved replacing this.
			e.logger.Warn("target appeared after planning, skipping",
				logging.String("source", move.Source),
				logging.String("target", move.Target))
			return true, nil
		}
		return false, e.moveFile(move.Source, move.Target, destDir)
	}

	// Overwrites always go through the temp-then-rename path, even on the
	// same filesystem, so the previous file survives any mid-copy crash.
	return false, e.replaceFile(move.Source, move.Target, destDir)
}

// moveFile renames src onto target, falling back to a copy-based move when
// the two paths live on different filesystems.
func (e *exec) moveFile(src, target, destDir string) error {
	err := os.Rename(src, target)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		e.logger.Debug("cross-filesystem move, copying",
			logging.String("source", src),
			logging.String("target", target))
		return e.replaceFile(src, target, destDir)
	}
	return classify("rename", err)
}

// replaceFile copies src into a unique temp file beside target, fsyncs it,
// atomically renames it over target, and only then removes src.
func (e *exec) replaceFile(src, target, destDir string) error {
	info, err := os.Stat(src)
	if err != nil {
		return classify("stat source", err)
	}

	tmp, err := os.CreateTemp(destDir, tempPattern)
	if err != nil {
		return classify("create temp file", err)
	}
	tmpName := tmp.Name()
	// The handle exists only to claim a unique name; the copy reopens the
	// path itself. Closing now avoids descriptor buildup over a long batch.
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return classify("close temp file", err)
	}

	if err := fileutil.CopyFileSynced(src, tmpName, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmpName)
		return classify("copy to temp file", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return classify("commit target", err)
	}
	if err := os.Remove(src); err != nil {
		// The target is committed; losing the source delete duplicates data
		// rather than corrupting it.
		e.logger.Warn("source not removed after copy", logging.String("source", src), logging.Error(err))
	}
	return nil
}

// ensureDir creates dir and any missing ancestors, returning how many
// directories were actually created.
func (e *exec) ensureDir(dir string) (int, error) {
	missing := 0
	for probe := dir; ; probe = filepath.Dir(probe) {
		if _, err := os.Lstat(probe); err == nil {
			break
		}
		missing++
		if filepath.Dir(probe) == probe {
			break
		}
	}
	if missing == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	return missing, nil
}

// cleanEmptyDirs removes now-empty directories under the source root,
// deepest first. The source root itself and anything under the output root
// are left alone. Failures are logged and ignored; cleanup is best-effort.
func (e *exec) cleanEmptyDirs() {
	root := e.octx.SourceRoot
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		// Symlinks never reach the directory checks: WalkDir does not follow
		// them, so they arrive here with IsDir false and are ignored.
		if !d.IsDir() || path == root {
			return nil
		}
		canonical, cerr := pathutil.Canonicalize(path)
		if cerr != nil || pathutil.Within(e.octx.OutputRoot, canonical) {
			return filepath.SkipDir
		}
		if !pathutil.StrictlyWithin(root, canonical) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		e.logger.Warn("empty-directory cleanup aborted", logging.Error(err))
		return
	}

	// Children sort after parents, so a reverse pass visits deepest first.
	for i := len(dirs) - 1; i >= 0; i-- {
		listing, err := os.ReadDir(dirs[i])
		if err != nil || len(listing) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			e.logger.Warn("empty directory not removed", logging.String("dir", dirs[i]), logging.Error(err))
			continue
		}
		e.logger.Debug("empty directory removed", logging.String("dir", dirs[i]))
	}
}

func (e *exec) logMove(move organize.Move, outcome string) {
	switch e.octx.Verbosity {
	case organize.VerbosityQuiet:
		return
	case organize.VerbosityVerbose:
		e.logger.Info(outcome,
			logging.String("source", move.Source),
			logging.String("target", move.Target),
			logging.String("resolution", move.Resolution.String()),
			logging.String("conflict", move.Reason.String()))
	default:
		e.logger.Info(outcome, logging.String("file", filepath.Base(move.Source)))
	}
}

// classify wraps a filesystem error, promoting a full destination filesystem
// to the fatal class.
func classify(operation string, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return organize.Wrap(organize.ErrFatal, "executing", operation, "Destination filesystem is full", err)
	}
	return organize.Wrap(organize.ErrTransient, "executing", operation, "", err)
}
