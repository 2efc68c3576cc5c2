package dataset

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL read-through cache over a Store. Concurrent cold reads are
// collapsed into a single load.
type Cache struct {
	store *Store
	ttl   time.Duration

	mu       sync.RWMutex
	dataset  *Dataset
	loadedAt time.Time

	group singleflight.Group
	now   func() time.Time
}

// NewCache wraps the store with the given TTL. A non-positive TTL disables
// expiry so the dataset only changes via Invalidate.
func NewCache(store *Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl, now: time.Now}
}

// Get returns the cached dataset, loading it when missing or expired. A load
// failure while a previous dataset is still held returns the stale copy
// instead of the error.
func (c *Cache) Get() (*Dataset, error) {
	c.mu.RLock()
	ds, fresh := c.dataset, c.isFresh()
	c.mu.RUnlock()
	if ds != nil && fresh {
		return ds, nil
	}

	v, err, _ := c.group.Do("dataset", func() (interface{}, error) {
		c.mu.RLock()
		ds, fresh := c.dataset, c.isFresh()
		c.mu.RUnlock()
		if ds != nil && fresh {
			return ds, nil
		}

		loaded, err := c.store.Load()
		if err != nil {
			if ds != nil {
				return ds, nil
			}
			return nil, err
		}
		c.mu.Lock()
		c.dataset = loaded
		c.loadedAt = c.now()
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached dataset so the next Get reloads from disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.dataset = nil
	c.mu.Unlock()
}

// Refresh reloads the dataset immediately, keeping the old copy on failure.
func (c *Cache) Refresh() error {
	loaded, err := c.store.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.dataset = loaded
	c.loadedAt = c.now()
	c.mu.Unlock()
	return nil
}

// isFresh must be called with at least a read lock held.
func (c *Cache) isFresh() bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(c.loadedAt) < c.ttl
}
