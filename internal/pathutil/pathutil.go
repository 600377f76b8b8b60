// Package pathutil provides canonical path resolution and containment checks
// shared by the scanner, planner, and executor.
package pathutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// Canonicalize returns the canonical absolute form of path: symlinks resolved
// and relative segments eliminated. The path itself does not need to exist;
// resolution applies to the deepest existing ancestor and the remaining
// segments are joined back on unchanged.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// Walk up to the deepest existing ancestor, resolve it, and reattach the
	// missing tail.
	dir := abs
	var tail []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		tail = append(tail, filepath.Base(dir))
		dir = parent
		resolved, err = filepath.EvalSymlinks(dir)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	for i := len(tail) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, tail[i])
	}
	return resolved, nil
}

// Within reports whether child lies under parent. Both paths must already be
// canonical. Containment is decided segment-wise, never by string prefix, so
// "/data/b2" is not considered inside "/data/b".
func Within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// StrictlyWithin reports whether child lies under parent and is not parent
// itself.
func StrictlyWithin(parent, child string) bool {
	return child != parent && Within(parent, child)
}
