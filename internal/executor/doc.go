// Package executor applies a move plan to the filesystem.
//
// It is the only package in the pipeline permitted to write. Same-filesystem
// moves are single renames; cross-filesystem moves and every overwrite go
// through a synced temp file in the destination directory followed by an
// atomic rename, so a crash mid-move leaves either the old content or the
// new content, never a truncated file. Temp files are removed on every
// failure path. A full destination filesystem aborts the remaining batch;
// other per-move failures are counted and skipped unless fail-fast is
// configured.
package executor
