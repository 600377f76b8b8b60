// Package logging builds the slog loggers used across chronosort.
//
// It offers a human-readable console handler and a JSON handler behind one
// Options struct, plus small attribute helpers so call sites stay terse.
// Verbosity is always passed down as an explicit level; nothing in this
// package mutates process-wide logger state, so the core stays safely
// callable from tests and from multiple runs in the same process.
package logging
