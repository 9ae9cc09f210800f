package fetch

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock time so cache expiry is testable with a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

type cacheEntry struct {
	data      []byte
	fetchedAt time.Time
}

// Cache is a time-bounded snapshot cache keyed by fetch arguments. Entries
// are immutable once stored and expire by elapsed wall-clock time only;
// there is no invalidation signal.
type Cache struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]cacheEntry
}

// NewCache creates a cache using the given clock. A nil clock means the
// system clock.
func NewCache(clock Clock) *Cache {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Cache{
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached snapshot for key if it was stored no longer than
// maxAge ago. Expired entries are left in place; they are overwritten by the
// next Put.
func (c *Cache) Get(key string, maxAge time.Duration) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.fetchedAt) > maxAge {
		return nil, false
	}
	return entry.data, true
}

// Put stores a snapshot for key, stamped with the current clock time.
func (c *Cache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, fetchedAt: c.clock.Now()}
}
