// Package watcher reruns the organize pipeline when the source directory
// changes.
//
// Events from fsnotify are debounced so a burst of writes triggers one run,
// and a flock-held lock file keeps a second watcher off the same source.
// Each triggered run is the same strictly sequential scan, plan, execute
// pipeline a manual invocation performs.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"chronosort/internal/logging"
)

// RunFunc executes one organize pass over the watched source.
type RunFunc func(ctx context.Context) error

// Service watches one source directory and triggers runs.
type Service struct {
	source   string
	debounce time.Duration
	run      RunFunc
	logger   *slog.Logger
	lockPath string
	lock     *flock.Flock
}

// New constructs a watcher for source. The lock file lives under lockDir and
// is keyed by the source path so different sources can be watched by
// separate processes.
func New(source, lockDir string, debounce time.Duration, run RunFunc, logger *slog.Logger) (*Service, error) {
	if run == nil {
		return nil, errors.New("watcher requires a run function")
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	digest := sha256.Sum256([]byte(source))
	lockPath := filepath.Join(lockDir, fmt.Sprintf("chronosort-%s.lock", hex.EncodeToString(digest[:4])))
	return &Service{
		source:   source,
		debounce: debounce,
		run:      run,
		logger:   logging.WithComponent(logger, "watcher"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start blocks until ctx is canceled. It acquires the single-instance lock,
// performs one initial run, then reruns after each debounced event burst.
func (s *Service) Start(ctx context.Context) error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watch lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another chronosort watcher already holds %s", s.lockPath)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.source); err != nil {
		return fmt.Errorf("watch %s: %w", s.source, err)
	}

	s.logger.Info("watching for changes",
		logging.String("source", s.source),
		logging.Duration("debounce", s.debounce),
		logging.String("lock", s.lockPath))

	if err := s.run(ctx); err != nil {
		s.logger.Error("initial run failed", logging.Error(err))
	}

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, open := <-w.Events:
			if !open {
				return errors.New("watch event stream closed")
			}
			if !relevant(event) {
				continue
			}
			s.logger.Debug("change detected", logging.String("path", event.Name), logging.String("op", event.Op.String()))
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.debounce)
			pending = true
		case err, open := <-w.Errors:
			if !open {
				return errors.New("watch error stream closed")
			}
			s.logger.Warn("watch error", logging.Error(err))
		case <-timer.C:
			pending = false
			if err := s.run(ctx); err != nil {
				s.logger.Error("triggered run failed", logging.Error(err))
			}
		}
	}
}

// relevant filters to events that can introduce new work. Chmod-only events
// never do.
func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0
}
