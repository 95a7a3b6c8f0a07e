package core

import (
	"log/slog"
	"sync"
	"time"
)

// Cache memoizes Load results per file path for the life of the process.
//
// The first Get for a path reads the file; every later Get returns the same
// *Table (or the same error) without touching the filesystem again. There is
// no invalidation: a changed file requires a process restart.
type Cache struct {
	opts LoadOptions

	mu      sync.Mutex
	entries map[string]*cacheEntry
	loads   int
}

type cacheEntry struct {
	table    *Table
	err      error
	duration time.Duration
}

// NewCache creates an empty cache that loads files with opts.
func NewCache(opts LoadOptions) *Cache {
	return &Cache{
		opts:    opts,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the table for path, loading it on first use.
func (c *Cache) Get(path string) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok {
		return e.table, e.err
	}

	start := time.Now()
	table, err := Load(path, c.opts)
	e := &cacheEntry{table: table, err: err, duration: time.Since(start)}
	c.entries[path] = e
	c.loads++

	if err != nil {
		slog.Error("catalog load failed", "path", path, "error", err)
	} else {
		slog.Info("catalog loaded",
			"path", path,
			"rows", table.Len(),
			"duration_ms", e.duration.Milliseconds(),
		)
	}

	return table, err
}

// LoadDuration returns how long the first load of path took.
// Returns false if path has not been loaded.
func (c *Cache) LoadDuration(path string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok {
		return 0, false
	}
	return e.duration, true
}

// Loads returns how many times the cache has read a file from disk.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
