package config

import (
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOrganize() error {
	switch c.Organize.DateSource {
	case "created", "modified":
	default:
		return fmt.Errorf("organize.date_source: unsupported value %q (want created or modified)", c.Organize.DateSource)
	}
	switch c.Organize.OnConflict {
	case "skip", "overwrite", "rename", "ask":
	default:
		return fmt.Errorf("organize.on_conflict: unsupported value %q (want skip, overwrite, rename, or ask)", c.Organize.OnConflict)
	}
	if c.Organize.Depth < 1 || c.Organize.Depth > 3 {
		return fmt.Errorf("organize.depth must be 1, 2, or 3 (got %d)", c.Organize.Depth)
	}
	for _, pattern := range c.Organize.Include {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("organize.include: bad pattern %q: %w", pattern, err)
		}
	}
	for _, pattern := range c.Organize.Exclude {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("organize.exclude: bad pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}
