package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// backupStamp formats the timestamp embedded in backup file names.
const backupStamp = "20060102-150405"

// BackupFile writes a verified copy of path next to the original as
// "<path>.<timestamp>.bak" and returns the backup path. An existing file at
// the backup path is never touched.
func BackupFile(path string, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat backup source: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("backup source %q is a directory", path)
	}

	backup := fmt.Sprintf("%s.%s.bak", path, now.Format(backupStamp))
	if _, err := os.Lstat(backup); err == nil {
		return "", fmt.Errorf("backup target %q already exists", backup)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat backup target: %w", err)
	}

	if err := CopyFileVerified(path, backup); err != nil {
		return "", fmt.Errorf("backup copy: %w", err)
	}
	return backup, nil
}
