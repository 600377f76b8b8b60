package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"chronosort/internal/logging"
	"chronosort/internal/organize"
	"chronosort/internal/pathutil"
)

// Scan walks octx.SourceRoot and returns the entries the planner should
// consider, sorted by path. Scan never mutates the filesystem.
func Scan(ctx context.Context, octx *organize.Context, logger *slog.Logger) ([]organize.Entry, error) {
	log := logging.WithComponent(logger, "scanner")

	root, err := pathutil.Canonicalize(octx.SourceRoot)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "scanning", "resolve source", "Source directory could not be resolved", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "scanning", "stat source", "Source directory is not accessible", err)
	}
	if !info.IsDir() {
		return nil, organize.Wrap(organize.ErrConfiguration, "scanning", "stat source", "Source path is not a directory", nil)
	}

	outputRoot, err := pathutil.Canonicalize(octx.OutputRoot)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "scanning", "resolve output", "Output directory could not be resolved", err)
	}

	if err := validateGlobs(octx.IncludeGlobs); err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "scanning", "validate include globs", err.Error(), nil)
	}
	if err := validateGlobs(octx.ExcludeGlobs); err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "scanning", "validate exclude globs", err.Error(), nil)
	}

	w := &walker{
		octx:       octx,
		logger:     log,
		outputRoot: outputRoot,
		// Visited identities are scoped to this walker so concurrent scans
		// in one process never share state.
		visited: make(map[organize.DirIdentity]struct{}),
	}
	if err := w.walkDir(ctx, root, 0); err != nil {
		return nil, err
	}

	sort.Slice(w.entries, func(i, j int) bool { return w.entries[i].Path < w.entries[j].Path })
	log.Debug("scan completed", logging.Int("entries", len(w.entries)))
	return w.entries, nil
}

type walker struct {
	octx       *organize.Context
	logger     *slog.Logger
	outputRoot string
	visited    map[organize.DirIdentity]struct{}
	entries    []organize.Entry
}

func (w *walker) walkDir(ctx context.Context, dir string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	identity, ok := dirIdentity(dir)
	if ok {
		if _, seen := w.visited[identity]; seen {
			w.logger.Warn("directory cycle detected, skipping", logging.String("dir", dir))
			return nil
		}
		w.visited[identity] = struct{}{}
	}

	listing, err := os.ReadDir(dir)
	if err != nil {
		if w.octx.FailFast {
			return organize.Wrap(organize.ErrTransient, "scanning", "read dir", "Directory could not be read", err)
		}
		w.logger.Warn("directory unreadable, treating as empty", logging.String("dir", dir), logging.Error(err))
		return nil
	}

	for _, entry := range listing {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if isHidden(name) && !w.octx.IncludeHidden {
			continue
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			w.logger.Warn("symlink skipped", logging.String("path", path))
			continue
		}

		if entry.IsDir() {
			if err := w.enterDir(ctx, path, depth); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			w.logger.Debug("irregular file skipped", logging.String("path", path))
			continue
		}
		if !w.matchesFilters(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if w.octx.FailFast {
				return organize.Wrap(organize.ErrTransient, "scanning", "stat file", "File could not be inspected", err)
			}
			w.logger.Warn("file skipped, stat failed", logging.String("path", path), logging.Error(err))
			continue
		}

		w.entries = append(w.entries, organize.Entry{
			Path:      path,
			Parent:    identity,
			Timestamp: chooseTimestamp(path, info, w.octx.DateSource),
			Size:      info.Size(),
		})
	}
	return nil
}

func (w *walker) enterDir(ctx context.Context, path string, depth int) error {
	if !w.octx.Recursive {
		return nil
	}

	canonical, err := pathutil.Canonicalize(path)
	if err != nil {
		w.logger.Warn("directory skipped, resolution failed", logging.String("dir", path), logging.Error(err))
		return nil
	}
	if pathutil.Within(w.outputRoot, canonical) {
		w.logger.Debug("output directory excluded from scan", logging.String("dir", path))
		return nil
	}
	if depth+1 > w.octx.EffectiveMaxDepth() {
		w.logger.Warn("depth ceiling reached, directory skipped",
			logging.String("dir", path),
			logging.Int("max_depth", w.octx.EffectiveMaxDepth()))
		return nil
	}
	return w.walkDir(ctx, canonical, depth+1)
}

// matchesFilters applies include/exclude globs against the base name only,
// case-sensitively. Exclude wins over include.
func (w *walker) matchesFilters(name string) bool {
	for _, pattern := range w.octx.ExcludeGlobs {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return false
		}
	}
	if len(w.octx.IncludeGlobs) == 0 {
		return true
	}
	for _, pattern := range w.octx.IncludeGlobs {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// validateGlobs rejects patterns filepath.Match cannot parse. A malformed
// include pattern would otherwise match nothing and silently drop every file.
func validateGlobs(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("bad pattern %q", pattern)
		}
	}
	return nil
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

func dirIdentity(dir string) (organize.DirIdentity, bool) {
	info, err := os.Lstat(dir)
	if err != nil {
		return organize.DirIdentity{}, false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return organize.DirIdentity{}, false
	}
	return organize.DirIdentity{Dev: uint64(stat.Dev), Ino: uint64(stat.Ino)}, true
}
