// Package planner turns scanned entries into an ordered move plan.
//
// Planning is pure with respect to writes: it may stat the destination tree
// to discover disk collisions but never creates, renames, or removes
// anything. Conflicts are resolved entirely at plan time so the executor only
// ever applies decisions; intra-run collisions take precedence over disk
// collisions, and the rename strategy probes both the in-run reservation set
// and the disk for the lowest free numeric suffix. The emitted plan is
// sorted by source path so repeated runs over an unchanged tree are
// byte-for-byte reproducible.
package planner
