//go:build !linux

package scanner

import (
	"io/fs"
	"time"

	"chronosort/internal/organize"
)

// chooseTimestamp falls back to the modification time on platforms without a
// statx birth time.
func chooseTimestamp(path string, info fs.FileInfo, source organize.DateSource) time.Time {
	return info.ModTime()
}
