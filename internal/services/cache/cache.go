// Package cache memoizes extracted page text so repeated requests for the
// same chapter do not re-parse the PDF.
//
// Entries are keyed by (path, modification time), not by path alone. When a
// chapter file is replaced on disk its mtime changes, the old key no longer
// matches, and the next request extracts the new content.
package cache

import (
	"context"
	"log"
	"sync"
	"time"
)

// Key identifies one version of one file.
type Key struct {
	Path    string
	ModTime int64 // UnixNano
}

// NewKey builds a key from a path and its modification time.
func NewKey(path string, mtime time.Time) Key {
	return Key{Path: path, ModTime: mtime.UnixNano()}
}

// Store is an optional durable tier behind the in-memory map.
// The database package provides a Postgres implementation.
type Store interface {
	GetPages(ctx context.Context, key Key) ([]string, bool, error)
	PutPages(ctx context.Context, key Key, pages []string) error
}

// ComputeFunc produces the pages for a key on a cache miss.
type ComputeFunc func() ([]string, error)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is a concurrency-safe map from Key to extracted pages.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key][]string
	hits    int64
	misses  int64

	store Store
}

// New creates an empty cache. store may be nil.
func New(store Store) *Cache {
	return &Cache{
		entries: make(map[Key][]string),
		store:   store,
	}
}

// GetOrCompute returns the pages for (path, mtime), calling compute only on a miss.
//
// On a miss, entries for the same path under any other mtime are dropped, so
// memory stays bounded by the number of distinct files browsed. Errors from
// compute are returned as-is and never cached.
//
// Two concurrent misses for the same key may both call compute. Extraction
// is deterministic, so the second write stores the same value.
func (c *Cache) GetOrCompute(ctx context.Context, path string, mtime time.Time, compute ComputeFunc) ([]string, error) {
	key := NewKey(path, mtime)

	c.mu.RLock()
	pages, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return pages, nil
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()

	if pages, ok := c.loadDurable(ctx, key); ok {
		c.put(key, pages)
		return pages, nil
	}

	pages, err := compute()
	if err != nil {
		return nil, err
	}

	c.put(key, pages)
	c.saveDurable(ctx, key, pages)
	return pages, nil
}

// put stores pages under key and evicts stale versions of the same path.
func (c *Cache) put(key Key, pages []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.entries {
		if k.Path == key.Path && k.ModTime != key.ModTime {
			delete(c.entries, k)
		}
	}
	c.entries[key] = pages
}

// loadDurable consults the durable store. Store failures are logged and
// treated as a miss; the in-memory map stays authoritative.
func (c *Cache) loadDurable(ctx context.Context, key Key) ([]string, bool) {
	if c.store == nil {
		return nil, false
	}
	pages, ok, err := c.store.GetPages(ctx, key)
	if err != nil {
		log.Printf("⚠️  Page cache lookup failed for %s: %v", key.Path, err)
		return nil, false
	}
	return pages, ok
}

func (c *Cache) saveDurable(ctx context.Context, key Key, pages []string) {
	if c.store == nil {
		return
	}
	if err := c.store.PutPages(ctx, key, pages); err != nil {
		log.Printf("⚠️  Page cache write failed for %s: %v", key.Path, err)
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// Len returns the number of cached file versions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
