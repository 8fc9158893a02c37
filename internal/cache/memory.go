package cache

import (
	"context"
	"sort"
	"sync"

	"wirsuchen.de/backend/internal/metrics"
)

// MemoryCache is the in-process tier. Entries live until Clear or restart.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
	metrics *metrics.Metrics
}

func NewMemory(m *metrics.Metrics) *MemoryCache {
	return &MemoryCache{entries: make(map[string]string), metrics: m}
}

func (c *MemoryCache) Get(_ context.Context, text, lang string) (string, bool) {
	c.mu.RLock()
	value, ok := c.entries[Key(text, lang)]
	c.mu.RUnlock()
	c.metrics.CacheLookup("memory", ok)
	return value, ok
}

func (c *MemoryCache) Set(_ context.Context, text, lang, translation string) {
	c.mu.Lock()
	c.entries[Key(text, lang)] = translation
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]string)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return Stats{Size: len(keys), Keys: keys}, nil
}
