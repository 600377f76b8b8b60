package inspect_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"chronosort/internal/inspect"
	"chronosort/internal/testsupport"
)

func TestCollectStats(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.jpg"), 100)
	testsupport.WriteFile(t, filepath.Join(root, "b.JPG"), 200)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "c.txt"), 50)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "README"), 10)

	stats, err := inspect.CollectStats(root)
	if err != nil {
		t.Fatalf("CollectStats: %v", err)
	}
	if stats.Files != 4 {
		t.Fatalf("Files = %d, want 4", stats.Files)
	}
	if stats.Dirs != 1 {
		t.Fatalf("Dirs = %d, want 1", stats.Dirs)
	}
	if stats.TotalBytes != 360 {
		t.Fatalf("TotalBytes = %d, want 360", stats.TotalBytes)
	}
	if stats.ByExtension[".jpg"] != 2 {
		t.Fatalf("extension casing not folded: %v", stats.ByExtension)
	}
	if stats.ByExtension["(none)"] != 1 {
		t.Fatalf("extensionless files miscounted: %v", stats.ByExtension)
	}
}

func TestStatsExtensionsOrdering(t *testing.T) {
	stats := inspect.Stats{ByExtension: map[string]int{
		".txt": 2,
		".jpg": 5,
		".csv": 2,
	}}
	got := stats.Extensions()
	want := []string{".jpg", ".csv", ".txt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extensions() = %v, want %v", got, want)
	}
}

func TestCollectStatsMissingRoot(t *testing.T) {
	if _, err := inspect.CollectStats(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestSearchMatchesCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "Vacation-2026.jpg"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "vacation_notes.txt"), 1)
	testsupport.WriteFile(t, filepath.Join(root, "invoice.pdf"), 1)

	matches, err := inspect.Search(root, "VACATION")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{
		filepath.Join(root, "Vacation-2026.jpg"),
		filepath.Join(root, "sub", "vacation_notes.txt"),
	}
	if !reflect.DeepEqual(matches, want) {
		t.Fatalf("Search = %v, want %v", matches, want)
	}
}

func TestSearchNoMatches(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.txt"), 1)

	matches, err := inspect.Search(root, "zzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %v", matches)
	}
}
