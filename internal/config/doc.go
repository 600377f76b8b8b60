// Package config loads, normalizes, and validates chronosort configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The organize core never touches this
// package; only the CLI wrapper translates a Config plus command-line flags
// into an organize.Context.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical strategy names, and clear validation errors.
package config
