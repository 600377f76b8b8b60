// Package scanner walks the source tree and yields candidate entries for the
// planner.
//
// The walk is deterministic (directory listings are consumed in lexicographic
// order and the final entry list is sorted by path), never follows symbolic
// links, refuses to re-enter directories whose (device, inode) identity was
// already visited in the same scan, stops at a hard depth ceiling, and
// excludes anything under the resolved output root when that root lies inside
// the source tree. Unreadable directories degrade to empty listings with a
// warning unless fail-fast is configured.
package scanner
