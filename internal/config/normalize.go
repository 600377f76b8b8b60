package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	if c.Paths.LogDir != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	if c.Watch.LockDir != "" {
		if c.Watch.LockDir, err = expandPath(c.Watch.LockDir); err != nil {
			return fmt.Errorf("watch.lock_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.DateSource = strings.ToLower(strings.TrimSpace(c.Organize.DateSource))
	if c.Organize.DateSource == "" {
		c.Organize.DateSource = defaultDateSource
	}
	c.Organize.OnConflict = strings.ToLower(strings.TrimSpace(c.Organize.OnConflict))
	if c.Organize.OnConflict == "" {
		c.Organize.OnConflict = defaultOnConflict
	}
	if c.Organize.Depth == 0 {
		c.Organize.Depth = defaultDepth
	}
	if c.Organize.MaxDepth <= 0 {
		c.Organize.MaxDepth = defaultMaxDepth
	}
	c.Organize.Include = trimPatterns(c.Organize.Include)
	c.Organize.Exclude = trimPatterns(c.Organize.Exclude)
}

func (c *Config) normalizeWatch() {
	if c.Watch.DebounceSeconds <= 0 {
		c.Watch.DebounceSeconds = defaultDebounceSeconds
	}
	if c.Watch.SettleSeconds < 0 {
		c.Watch.SettleSeconds = defaultSettleSeconds
	}
	if c.Watch.LockDir == "" {
		c.Watch.LockDir = c.Paths.LogDir
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
