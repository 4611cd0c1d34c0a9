package cache

import (
	"context"
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e ttlEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// TTLCache is an in-process Cache implementation. Expired entries are dropped
// lazily on read and swept periodically when a cleanup interval is configured.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry[V]
	now     func() time.Time

	ticker *time.Ticker
	done   chan struct{}
}

// TTLOption configures a TTLCache.
type TTLOption[V any] func(*TTLCache[V])

// WithCleanupInterval starts a background sweep of expired entries. Without
// it, expired entries linger until the next read of their key.
func WithCleanupInterval[V any](interval time.Duration) TTLOption[V] {
	return func(c *TTLCache[V]) {
		if interval > 0 {
			c.ticker = time.NewTicker(interval)
			go c.cleanupLoop()
		}
	}
}

// WithClock overrides the time source, used by tests to control expiry.
func WithClock[V any](now func() time.Time) TTLOption[V] {
	return func(c *TTLCache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTTLCache creates an empty in-process cache.
func NewTTLCache[V any](opts ...TTLOption[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		entries: make(map[string]ttlEntry[V]),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TTLCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false, nil
	}

	if entry.expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, still := c.entries[key]; still && current.expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false, nil
	}

	return entry.value, true, nil
}

func (c *TTLCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	entry := ttlEntry[V]{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *TTLCache[V]) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweep goroutine, if any.
func (c *TTLCache[V]) Close() error {
	if c.ticker != nil {
		c.ticker.Stop()
		close(c.done)
	}
	return nil
}

func (c *TTLCache[V]) cleanupLoop() {
	for {
		select {
		case <-c.ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

func (c *TTLCache[V]) sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}
