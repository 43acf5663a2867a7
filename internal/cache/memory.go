package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

const (
	defaultCapacity        = 100
	defaultCleanupInterval = 5 * time.Minute
)

type memoryEntry struct {
	key      string
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// MemoryCache is a bounded in-process cache with per-entry TTL. When full it
// evicts the earliest-inserted entry still present (FIFO, not LRU); reads
// never change eviction order.
type MemoryCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = oldest insertion
	capacity int
	now      func() time.Time

	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
	cleanupInterval time.Duration
}

type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// WithCleanupInterval sets how often expired entries are swept in the
// background. Zero or negative disables the sweeper; expired entries are
// still purged when read.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *MemoryCache) { c.cleanupInterval = d }
}

// NewMemoryCache creates a cache holding at most capacity entries.
// A capacity <= 0 falls back to 100.
func NewMemoryCache(capacity int, opts ...MemoryOption) *MemoryCache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	c := &MemoryCache{
		items:           make(map[string]*list.Element),
		order:           list.New(),
		capacity:        capacity,
		now:             time.Now,
		stopCleanup:     make(chan struct{}),
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cleanupInterval > 0 {
		go c.cleanupExpired()
	}

	return c
}

// Get returns the value for key if present and unexpired. An expired entry is
// removed on the spot.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}

	entry := el.Value.(*memoryEntry)
	if entry.expired(c.now()) {
		c.removeElement(el)
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key for ttl. Re-setting a key replaces it and makes
// it the newest insertion. ttl <= 0 deletes the key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	if ttl <= 0 {
		return nil
	}

	for c.order.Len() >= c.capacity {
		c.removeElement(c.order.Front())
	}

	// Copy to decouple from caller's buffer
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.items[key] = c.order.PushBack(&memoryEntry{
		key:      key,
		value:    valueCopy,
		storedAt: c.now(),
		ttl:      ttl,
	})

	return nil
}

// Clear removes all items.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Close stops the cleanup goroutine. Call this on shutdown or in tests.
func (c *MemoryCache) Close() error {
	c.cleanupOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

// removeElement must be called with mu held.
func (c *MemoryCache) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*memoryEntry)
	delete(c.items, entry.key)
}

func (c *MemoryCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*memoryEntry).expired(now) {
			c.removeElement(el)
		}
		el = next
	}
}

// cleanupExpired runs periodically to remove expired entries.
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}
