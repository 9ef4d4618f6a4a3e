package pythontorust

import (
	"sync"
)

// siteCache keeps the loaded site graph for the preview server so every
// request between rebuilds reads the same immutable snapshot. The
// watcher invalidates it when content changes.
type siteCache struct {
	mu   sync.RWMutex
	site *Site
	load func() (*Site, error)
}

func newSiteCache(load func() (*Site, error)) *siteCache {
	return &siteCache{load: load}
}

// Invalidate clears the snapshot so the next read triggers a fresh load.
func (c *siteCache) Invalidate() {
	c.mu.Lock()
	c.site = nil
	c.mu.Unlock()
}

// Get returns the current snapshot, loading it when needed. It tries a
// read lock first; only takes a write lock if a reload is needed.
func (c *siteCache) Get() (*Site, error) {
	c.mu.RLock()
	if c.site != nil {
		site := c.site
		c.mu.RUnlock()
		return site, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.site != nil {
		return c.site, nil
	}
	site, err := c.load()
	if err != nil {
		return nil, err
	}
	c.site = site
	return site, nil
}
