package pathutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"chronosort/internal/pathutil"
)

func TestCanonicalizeResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Fatal(err)
	}

	got, err := pathutil.Canonicalize(filepath.Join(link, "sub"))
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	realCanonical, err := pathutil.Canonicalize(real)
	if err != nil {
		t.Fatalf("Canonicalize real: %v", err)
	}
	want := filepath.Join(realCanonical, "sub")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCanonicalizeMissingTail(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "a", "b", "c")

	got, err := pathutil.Canonicalize(missing)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	base, err := pathutil.Canonicalize(dir)
	if err != nil {
		t.Fatalf("Canonicalize dir: %v", err)
	}
	if got != filepath.Join(base, "a", "b", "c") {
		t.Fatalf("unexpected canonical path: %q", got)
	}
}

func TestCanonicalizeCleansRelativeSegments(t *testing.T) {
	dir := t.TempDir()
	got, err := pathutil.Canonicalize(filepath.Join(dir, "x", "..", "y"))
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	base, err := pathutil.Canonicalize(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(base, "y") {
		t.Fatalf("unexpected canonical path: %q", got)
	}
}

func TestWithin(t *testing.T) {
	cases := []struct {
		parent string
		child  string
		want   bool
	}{
		{"/data/b", "/data/b/file.txt", true},
		{"/data/b", "/data/b", true},
		{"/data/b", "/data/b2", false},
		{"/data/b", "/data/b2/file.txt", false},
		{"/data/b", "/data", false},
		{"/data/b", "/other", false},
	}
	for _, tc := range cases {
		if got := pathutil.Within(tc.parent, tc.child); got != tc.want {
			t.Errorf("Within(%q, %q) = %v, want %v", tc.parent, tc.child, got, tc.want)
		}
	}
}

func TestStrictlyWithin(t *testing.T) {
	if pathutil.StrictlyWithin("/data/b", "/data/b") {
		t.Fatal("a directory is not strictly within itself")
	}
	if !pathutil.StrictlyWithin("/data/b", "/data/b/sub") {
		t.Fatal("expected subdirectory to be strictly within")
	}
}
