package scanner

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, size int) *Cache {
	t.Helper()
	cache, err := NewCache(size, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cache.Close)
	return cache
}

func Test_Cache_ReusesSnapshot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": ""})
	cache := newTestCache(t, 4)

	first, err := cache.Snapshot(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Snapshot(root)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the cached snapshot to be reused")
	}
}

func Test_Cache_InvalidatedByChange(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": ""})
	cache := newTestCache(t, 4)

	if _, err := cache.Snapshot(root); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(root, "new.go"), []byte("package main\n"), 0644)

	deadline := time.Now().Add(3 * time.Second)
	for cache.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected cache entry to be invalidated after a change")
		}
		time.Sleep(20 * time.Millisecond)
	}

	snapshot, err := cache.Snapshot(root)
	if err != nil {
		t.Fatal(err)
	}
	if !snapshot.Contains("new.go") {
		t.Errorf("expected rescan to see new.go, got %v", snapshot.Files)
	}
}

func Test_Cache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newTestCache(t, 1)
	rootA, rootB := t.TempDir(), t.TempDir()

	if _, err := cache.Snapshot(rootA); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Snapshot(rootB); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached root, got %d", cache.Len())
	}
}

func Test_Cache_MissingRoot(t *testing.T) {
	cache := newTestCache(t, 2)

	if _, err := cache.Snapshot(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrRootNotFound) {
		t.Errorf("expected ErrRootNotFound, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("expected failed scans to not be cached")
	}
}

func Test_Cache_SymlinkedRootWatchesSubdirectories(t *testing.T) {
	parent := t.TempDir()
	realDir := filepath.Join(parent, "real")
	writeTree(t, realDir, map[string]string{"src/a.py": ""})
	link := filepath.Join(parent, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	cache := newTestCache(t, 4)

	snapshot, err := cache.Snapshot(link)
	if err != nil {
		t.Fatal(err)
	}
	if !snapshot.Contains("src/a.py") {
		t.Fatalf("expected src/a.py through the symlinked root, got %v", snapshot.Files)
	}

	os.WriteFile(filepath.Join(realDir, "src", "b.py"), []byte("x = 1\n"), 0644)

	deadline := time.Now().Add(3 * time.Second)
	for cache.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected a change in a subdirectory to invalidate the entry")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func Test_Cache_ChangeDuringScanInvalidates(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"main.go": ""})
	cache := newTestCache(t, 4)
	cache.scan = func(root string, matcher PathMatcher) (*Snapshot, error) {
		snapshot, err := Scan(root, matcher)
		os.WriteFile(filepath.Join(root, "late.go"), []byte("package main\n"), 0644)
		return snapshot, err
	}

	snapshot, err := cache.Snapshot(root)
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Contains("late.go") {
		t.Fatal("late.go was written after the walk and should not be listed")
	}

	deadline := time.Now().Add(3 * time.Second)
	for cache.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected a change made during the scan to invalidate the entry")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
