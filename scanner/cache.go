package scanner

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lexandro/contextengine-mcp/ignore"
	"github.com/lexandro/contextengine-mcp/watcher"
)

// DefaultCacheSize bounds how many roots keep a cached snapshot and a live watcher.
const DefaultCacheSize = 16

// Cache is an opt-in Source that reuses a snapshot until anything under its
// root changes. Each cached root owns a filesystem watcher; the first change
// batch evicts the entry, so the next query rescans from disk.
type Cache struct {
	customPatterns []string
	logger         *slog.Logger
	scan           func(root string, matcher PathMatcher) (*Snapshot, error)

	mu      sync.Mutex
	entries *lru.Cache[string, *cacheEntry]
}

type cacheEntry struct {
	snapshot *Snapshot
	watcher  *watcher.Watcher
}

// NewCache creates a snapshot cache holding at most size roots.
func NewCache(size int, customPatterns []string, logger *slog.Logger) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := lru.NewWithEvict[string, *cacheEntry](size, func(root string, entry *cacheEntry) {
		if entry.watcher != nil {
			entry.watcher.Close()
		}
		logger.Debug("snapshot cache evicted", "root", root)
	})
	if err != nil {
		return nil, fmt.Errorf("creating snapshot cache: %w", err)
	}
	return &Cache{
		customPatterns: customPatterns,
		logger:         logger,
		scan:           Scan,
		entries:        entries,
	}, nil
}

// Snapshot returns the cached snapshot for root, scanning on a miss.
func (c *Cache) Snapshot(root string) (*Snapshot, error) {
	key := filepath.Clean(root)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries.Get(key); ok {
		c.logger.Debug("snapshot cache hit", "root", key, "files", entry.snapshot.Len())
		return entry.snapshot, nil
	}

	if err := ValidateRoot(key); err != nil {
		return nil, err
	}
	// The watcher registers directories by their real path, so a symlinked
	// root is resolved before matching and watching.
	watchRoot, err := filepath.EvalSymlinks(key)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", key, err)
	}
	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        watchRoot,
		CustomPatterns: c.customPatterns,
	})

	// Watch before scanning so a change made during the scan still evicts it.
	w, err := watcher.NewWatcher(watchRoot, matcher, watcher.DefaultDebounce, c.logger)
	if err != nil {
		// Without a watcher staleness cannot be detected, so the result is not cached.
		c.logger.Warn("failed to watch root, snapshot not cached", "root", key, "error", err)
		return c.scan(key, matcher)
	}
	go w.Start()

	snapshot, err := c.scan(key, matcher)
	if err != nil {
		w.Close()
		return nil, err
	}
	entry := &cacheEntry{snapshot: snapshot, watcher: w}
	c.entries.Add(key, entry)
	go c.invalidateOnChange(key, entry)

	c.logger.Info("scanned repository", "root", key, "files", snapshot.Len(), "cached", true)
	return snapshot, nil
}

// invalidateOnChange evicts entry on its first change batch.
func (c *Cache) invalidateOnChange(root string, entry *cacheEntry) {
	select {
	case <-entry.watcher.Done():
		return
	case batch := <-entry.watcher.Events():
		c.mu.Lock()
		defer c.mu.Unlock()
		if current, ok := c.entries.Peek(root); ok && current == entry {
			c.entries.Remove(root)
			c.logger.Info("snapshot invalidated", "root", root, "changes", len(batch))
			if len(batch) > 0 {
				c.logger.Debug("first change", "root", root, "path", batch[0].Path, "op", batch[0].Op.String())
			}
		}
	}
}

// Invalidate drops the cached snapshot for root, if any.
func (c *Cache) Invalidate(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(filepath.Clean(root))
}

// Len returns the number of cached roots.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Close evicts every entry and stops all watchers.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}
