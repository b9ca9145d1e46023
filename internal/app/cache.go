package app

import (
	"container/list"
	"sync"
)

// renderCache is a thread-safe LRU of rendered charts keyed by dataset
// version and hover state. Cached slices are shared and must not be
// modified.
type renderCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front is most recently used
}

type cacheEntry struct {
	key   string
	value []byte
}

func newRenderCache(maxEntries int) *renderCache {
	return &renderCache{
		maxEntries: max(1, maxEntries),
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *renderCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *renderCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *renderCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
