package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chronosort/internal/organize"
	"chronosort/internal/testsupport"
)

var fixtureTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOrganizeEndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()
	source := filepath.Join(base, "inbox")
	dest := filepath.Join(base, "sorted")
	testsupport.WriteFileAt(t, filepath.Join(source, "photo1.jpg"), "pixels", fixtureTime)
	testsupport.WriteFileAt(t, filepath.Join(source, "notes", "todo.txt"), "remember", fixtureTime)

	out, err := runCommand(t, "organize", source, "--output", dest, "--recursive", "--yes", "--quiet")
	if err != nil {
		t.Fatalf("organize failed: %v\n%s", err, out)
	}

	moved := filepath.Join(dest, "2026", "202601", "20260110", "photo1.jpg")
	if got := testsupport.ReadFile(t, moved); got != "pixels" {
		t.Fatalf("moved file contents = %q", got)
	}
	if _, err := os.Lstat(filepath.Join(source, "photo1.jpg")); err == nil {
		t.Fatal("source file not removed")
	}
	if got := testsupport.ReadFile(t, filepath.Join(dest, "2026", "202601", "20260110", "todo.txt")); got != "remember" {
		t.Fatalf("nested file contents = %q", got)
	}
	if !bytes.Contains([]byte(out), []byte("Moved 2, skipped 0, errors 0")) {
		t.Fatalf("summary missing from output:\n%s", out)
	}
}

func TestOrganizeDryRunTouchesNothing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()
	source := filepath.Join(base, "inbox")
	dest := filepath.Join(base, "sorted")
	testsupport.WriteFileAt(t, filepath.Join(source, "photo1.jpg"), "pixels", fixtureTime)

	out, err := runCommand(t, "organize", source, "--output", dest, "--dry-run")
	if err != nil {
		t.Fatalf("dry run failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("Dry run: 1 file(s) scanned, 1 move(s) planned.")) {
		t.Fatalf("dry run summary missing:\n%s", out)
	}
	if got := testsupport.ReadFile(t, filepath.Join(source, "photo1.jpg")); got != "pixels" {
		t.Fatal("dry run modified the source")
	}
	if _, err := os.Lstat(dest); err == nil {
		t.Fatal("dry run created the destination")
	}
}

func TestOrganizeMissingSourceIsConfigurationError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "organize", filepath.Join(t.TempDir(), "absent"), "--yes")
	if err == nil {
		t.Fatal("expected an error for a missing source")
	}
	if !errors.Is(err, organize.ErrConfiguration) {
		t.Fatalf("error %v should classify as configuration", err)
	}
}

func TestOrganizeMalformedGlobIsConfigurationError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()
	source := filepath.Join(base, "inbox")
	testsupport.WriteFileAt(t, filepath.Join(source, "a.txt"), "x", fixtureTime)

	_, err := runCommand(t, "organize", source, "--include", "[a", "--yes")
	if err == nil {
		t.Fatal("expected an error for a malformed include pattern")
	}
	if !errors.Is(err, organize.ErrConfiguration) {
		t.Fatalf("error %v should classify as configuration", err)
	}
	if _, statErr := os.Lstat(filepath.Join(source, "a.txt")); statErr != nil {
		t.Fatal("source must be untouched after a rejected run")
	}
}

func TestOrganizeSourceIsFileIsConfigurationError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "file.txt")
	testsupport.WriteFileAt(t, path, "x", fixtureTime)

	_, err := runCommand(t, "organize", path, "--yes")
	if !errors.Is(err, organize.ErrConfiguration) {
		t.Fatalf("error %v should classify as configuration", err)
	}
}

func TestOrganizeHonorsConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()
	source := filepath.Join(base, "inbox")
	dest := filepath.Join(base, "sorted")
	testsupport.WriteFileAt(t, filepath.Join(source, "data.csv"), "1,2", fixtureTime)

	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte("[organize]\ndepth = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", configPath, "organize", source, "--output", dest, "--yes", "--quiet")
	if err != nil {
		t.Fatalf("organize failed: %v\n%s", err, out)
	}
	if got := testsupport.ReadFile(t, filepath.Join(dest, "20260110", "data.csv")); got != "1,2" {
		t.Fatalf("depth-1 target missing, output:\n%s", out)
	}
}

func TestOrganizeFlagOverridesConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()
	source := filepath.Join(base, "inbox")
	dest := filepath.Join(base, "sorted")
	testsupport.WriteFileAt(t, filepath.Join(source, "data.csv"), "1,2", fixtureTime)

	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte("[organize]\ndepth = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", configPath, "organize", source, "--output", dest, "--depth", "3", "--yes", "--quiet")
	if err != nil {
		t.Fatalf("organize failed: %v\n%s", err, out)
	}
	if got := testsupport.ReadFile(t, filepath.Join(dest, "2026", "202601", "20260110", "data.csv")); got != "1,2" {
		t.Fatalf("depth-3 target missing, output:\n%s", out)
	}
}

func TestStatsCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	testsupport.WriteFileAt(t, filepath.Join(dir, "a.jpg"), "xx", fixtureTime)
	testsupport.WriteFileAt(t, filepath.Join(dir, "b.jpg"), "yy", fixtureTime)

	out, err := runCommand(t, "stats", dir)
	if err != nil {
		t.Fatalf("stats failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte(".jpg")) {
		t.Fatalf("extension breakdown missing:\n%s", out)
	}
}

func TestSearchCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	testsupport.WriteFileAt(t, filepath.Join(dir, "Vacation.jpg"), "x", fixtureTime)
	testsupport.WriteFileAt(t, filepath.Join(dir, "invoice.pdf"), "x", fixtureTime)

	out, err := runCommand(t, "search", dir, "vacation")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("Vacation.jpg")) {
		t.Fatalf("match missing:\n%s", out)
	}
	if bytes.Contains([]byte(out), []byte("invoice.pdf")) {
		t.Fatalf("non-match leaked:\n%s", out)
	}
}

func TestConfigValidateHonorsConfigFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base := t.TempDir()

	badPath := filepath.Join(base, "bad.toml")
	if err := os.WriteFile(badPath, []byte("[organize]\ndepth = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "--config", badPath, "config", "validate"); err == nil {
		t.Fatal("expected validation failure for the flagged config file")
	}

	goodPath := filepath.Join(base, "good.toml")
	if err := os.WriteFile(goodPath, []byte("[organize]\ndepth = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCommand(t, "--config", goodPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte(goodPath)) {
		t.Fatalf("validated path missing from output:\n%s", out)
	}
}

func TestConfigShowCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, out)
	}
	if !bytes.Contains([]byte(out), []byte("[organize]")) {
		t.Fatalf("sample config missing:\n%s", out)
	}
}
