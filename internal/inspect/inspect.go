// Package inspect implements the read-only helper operations: directory
// statistics and filename keyword search. These are thin collaborators of
// the organize pipeline and never modify anything.
package inspect

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Stats summarizes the files under a directory.
type Stats struct {
	Files      int
	Dirs       int
	TotalBytes int64
	// ByExtension counts files per lowercase extension; extensionless files
	// are keyed as "(none)".
	ByExtension map[string]int
}

// CollectStats walks root (recursively) and tallies file counts and sizes.
// Unreadable entries are skipped.
func CollectStats(root string) (Stats, error) {
	stats := Stats{ByExtension: make(map[string]int)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != root {
				stats.Dirs++
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		stats.Files++
		stats.TotalBytes += info.Size()
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == "" {
			ext = "(none)"
		}
		stats.ByExtension[ext]++
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// Extensions returns the extension keys sorted by descending count, ties
// broken alphabetically.
func (s Stats) Extensions() []string {
	keys := make([]string, 0, len(s.ByExtension))
	for k := range s.ByExtension {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.ByExtension[keys[i]] != s.ByExtension[keys[j]] {
			return s.ByExtension[keys[i]] > s.ByExtension[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Search returns the paths under root whose base name contains keyword,
// case-insensitively, sorted by path. Unreadable entries are skipped.
func Search(root, keyword string) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
