//go:build linux

package scanner

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"

	"chronosort/internal/organize"
)

// chooseTimestamp returns the entry timestamp per the configured date source.
// Creation time comes from statx birth time where the filesystem records one;
// filesystems without birth times fall back to the modification time.
func chooseTimestamp(path string, info fs.FileInfo, source organize.DateSource) time.Time {
	if source == organize.DateCreated {
		var stx unix.Statx_t
		err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
		if err == nil && stx.Mask&unix.STATX_BTIME != 0 {
			return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
		}
	}
	return info.ModTime()
}
