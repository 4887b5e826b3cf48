package dataset

import (
	"sync"

	"github.com/epwatch/rebelboard/internal/domain/model"
)

// datasetCache is a bounded FIFO cache of fetched datasets keyed by
// "period/slug". The upstream files are immutable per deploy, so no TTL or
// invalidation is needed; eviction only bounds memory.
type datasetCache struct {
	mu      sync.RWMutex
	entries map[string]model.Dataset
	order   []string
	maxSize int
}

func newDatasetCache(maxSize int) *datasetCache {
	return &datasetCache{
		entries: make(map[string]model.Dataset, maxSize),
		maxSize: maxSize,
	}
}

func (c *datasetCache) get(key string) (model.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[key]
	return ds, ok
}

func (c *datasetCache) put(key string, ds model.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = ds
		return
	}
	for c.maxSize > 0 && len(c.order) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = ds
	c.order = append(c.order, key)
}

func (c *datasetCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
