package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"chronosort/internal/config"
	"chronosort/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the per-invocation logger. Each run carries a fresh run
// identifier so interleaved log files from watch mode stay attributable.
// levelOverride, when non-empty, wins over the configured level.
func newLogger(cfg *config.Config, levelOverride string) (*slog.Logger, func(), error) {
	level := cfg.Logging.Level
	if levelOverride != "" {
		level = levelOverride
	}

	writer := io.Writer(os.Stderr)
	cleanup := func() {}
	if cfg.Paths.LogDir != "" {
		file, err := logging.OpenLogFile(filepath.Join(cfg.Paths.LogDir, "chronosort.log"))
		if err != nil {
			return nil, nil, err
		}
		writer = io.MultiWriter(os.Stderr, file)
		cleanup = func() { _ = file.Close() }
	}

	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Writer: writer,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return logger.With(logging.String(logging.FieldRunID, uuid.NewString())), cleanup, nil
}
