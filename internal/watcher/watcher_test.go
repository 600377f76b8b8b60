package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"chronosort/internal/logging"
	"chronosort/internal/watcher"
)

func TestNewRequiresRunFunc(t *testing.T) {
	if _, err := watcher.New(t.TempDir(), t.TempDir(), time.Second, nil, logging.NewNop()); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestStartRunsOnceThenOnChange(t *testing.T) {
	source := t.TempDir()
	var runs atomic.Int32
	run := func(context.Context) error {
		runs.Add(1)
		return nil
	}

	svc, err := watcher.New(source, t.TempDir(), 50*time.Millisecond, run, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	waitFor(t, func() bool { return runs.Load() == 1 })

	if err := os.WriteFile(filepath.Join(source, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return runs.Load() == 2 })

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Start returned %v, want context.Canceled", err)
	}
}

func TestStartDebouncesBursts(t *testing.T) {
	source := t.TempDir()
	var runs atomic.Int32
	run := func(context.Context) error {
		runs.Add(1)
		return nil
	}

	svc, err := watcher.New(source, t.TempDir(), 200*time.Millisecond, run, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	waitFor(t, func() bool { return runs.Load() == 1 })

	// A burst of writes inside one debounce window triggers exactly one run.
	for i := 0; i < 5; i++ {
		name := filepath.Join(source, "burst.txt")
		if err := os.WriteFile(name, []byte{byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	waitFor(t, func() bool { return runs.Load() == 2 })
	time.Sleep(300 * time.Millisecond)
	if got := runs.Load(); got != 2 {
		t.Fatalf("burst triggered %d runs, want 2", got-1)
	}

	cancel()
	<-done
}

func TestStartRefusesSecondInstance(t *testing.T) {
	source := t.TempDir()
	lockDir := t.TempDir()
	var firstRuns atomic.Int32
	firstRun := func(context.Context) error {
		firstRuns.Add(1)
		return nil
	}

	first, err := watcher.New(source, lockDir, time.Hour, firstRun, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := watcher.New(source, lockDir, time.Hour, func(context.Context) error { return nil }, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- first.Start(ctx) }()

	// The initial run happens after the lock is held, so once it has fired
	// the second instance must be refused.
	waitFor(t, func() bool { return firstRuns.Load() == 1 })
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("second watcher acquired the lock")
	}

	cancel()
	<-done
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
