package planner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chronosort/internal/logging"
	"chronosort/internal/organize"
	"chronosort/internal/pathutil"
)

// maxRenameAttempts bounds suffix probing so a pathological destination
// cannot spin the planner forever.
const maxRenameAttempts = 10000

// Plan computes one Move per entry that needs action. Entries already at
// their correct target produce no move at all. The returned plan is sorted
// by source path.
func Plan(entries []organize.Entry, octx *organize.Context, logger *slog.Logger) ([]organize.Move, error) {
	log := logging.WithComponent(logger, "planner")

	outputRoot, err := pathutil.Canonicalize(octx.OutputRoot)
	if err != nil {
		return nil, organize.Wrap(organize.ErrConfiguration, "planning", "resolve output", "Output directory could not be resolved", err)
	}
	if octx.Depth < 1 || octx.Depth > 3 {
		return nil, organize.Wrap(organize.ErrConfiguration, "planning", "validate depth", fmt.Sprintf("Depth must be 1, 2, or 3 (got %d)", octx.Depth), nil)
	}

	sorted := make([]organize.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	p := &plan{
		octx:     octx,
		logger:   log,
		reserved: make(map[string]struct{}, len(sorted)),
	}

	moves := make([]organize.Move, 0, len(sorted))
	for _, entry := range sorted {
		raw := filepath.Join(octx.OutputRoot, dateDir(entry.Timestamp, octx.Depth), filepath.Base(entry.Path))
		target, err := pathutil.Canonicalize(raw)
		if err != nil {
			return nil, organize.Wrap(organize.ErrTransient, "planning", "resolve target", "Target path could not be resolved", err)
		}
		if !pathutil.Within(outputRoot, target) {
			return nil, organize.Wrap(organize.ErrConfiguration, "planning", "contain target",
				fmt.Sprintf("Target %q escapes the output root", raw), nil)
		}

		if target == entry.Path {
			// Already organized; emitting a self-move would double-count.
			log.Debug("entry already in place", logging.String("path", entry.Path))
			continue
		}

		move := p.resolve(entry, raw, target)
		moves = append(moves, move)
	}

	sort.Slice(moves, func(i, j int) bool { return moves[i].Source < moves[j].Source })
	log.Debug("plan computed", logging.Int("moves", len(moves)))
	return moves, nil
}

type plan struct {
	octx     *organize.Context
	logger   *slog.Logger
	reserved map[string]struct{}
}

// resolve applies the conflict strategy for one entry. Intra-run collisions
// are checked before disk collisions.
func (p *plan) resolve(entry organize.Entry, raw, target string) organize.Move {
	reason := organize.ConflictNone
	if _, taken := p.reserved[target]; taken {
		reason = organize.ConflictDuplicateInRun
	} else if existsOnDisk(target) {
		reason = organize.ConflictExistsOnDisk
	}

	if reason == organize.ConflictNone {
		p.reserved[target] = struct{}{}
		return organize.Move{Source: entry.Path, RawTarget: raw, Target: target, Resolution: organize.ResolveProceed}
	}

	strategy := p.octx.Strategy
	if strategy == organize.StrategyAsk {
		strategy = p.askStrategy(entry, target, reason)
	}

	switch strategy {
	case organize.StrategyOverwrite:
		p.reserved[target] = struct{}{}
		return organize.Move{
			Source:     entry.Path,
			RawTarget:  raw,
			Target:     target,
			Resolution: organize.ResolveProceed,
			Reason:     reason,
			Overwrite:  true,
		}
	case organize.StrategyRename:
		alternate, ok := p.nextFreeTarget(target)
		if !ok {
			p.logger.Warn("rename slots exhausted, skipping", logging.String("target", target))
			return organize.Move{Source: entry.Path, RawTarget: raw, Target: target, Resolution: organize.ResolveSkip, Reason: reason}
		}
		p.reserved[alternate] = struct{}{}
		return organize.Move{
			Source:     entry.Path,
			RawTarget:  raw,
			Target:     alternate,
			Resolution: organize.ResolveRenamed,
			Reason:     reason,
		}
	default:
		return organize.Move{Source: entry.Path, RawTarget: raw, Target: target, Resolution: organize.ResolveSkip, Reason: reason}
	}
}

// askStrategy degrades to skip when no prompter is attached so a
// non-interactive run never blocks. A yes answer overwrites.
func (p *plan) askStrategy(entry organize.Entry, target string, reason organize.ConflictReason) organize.Strategy {
	if p.octx.Prompter == nil {
		return organize.StrategySkip
	}
	question := fmt.Sprintf("%s conflicts with %s (%s). Overwrite?", entry.Path, target, reason)
	if p.octx.Prompter.Confirm(question) {
		return organize.StrategyOverwrite
	}
	return organize.StrategySkip
}

// nextFreeTarget probes name_1, name_2, ... against both the in-run
// reservation set and the disk, returning the lowest free candidate.
func (p *plan) nextFreeTarget(target string) (string, bool) {
	dir := filepath.Dir(target)
	base := filepath.Base(target)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for attempt := 1; attempt <= maxRenameAttempts; attempt++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, attempt, ext))
		if _, taken := p.reserved[candidate]; taken {
			continue
		}
		if existsOnDisk(candidate) {
			continue
		}
		return candidate, true
	}
	return "", false
}

// existsOnDisk treats any lstat-visible entry, symlinks included, as
// occupying the name.
func existsOnDisk(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// dateDir formats the date-derived directory chain for the configured depth.
func dateDir(ts time.Time, depth int) string {
	day := ts.Format("20060102")
	switch depth {
	case 1:
		return day
	case 2:
		return filepath.Join(ts.Format("2006"), day)
	default:
		return filepath.Join(ts.Format("2006"), ts.Format("200601"), day)
	}
}
