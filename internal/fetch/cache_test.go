package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(clock)

	cache.Put("ref", []byte("snapshot"))

	data, ok := cache.Get("ref", time.Hour)
	require.True(t, ok)
	assert.Equal(t, []byte("snapshot"), data)

	clock.Advance(59 * time.Minute)
	_, ok = cache.Get("ref", time.Hour)
	assert.True(t, ok, "entry within TTL must be served")

	clock.Advance(2 * time.Minute)
	_, ok = cache.Get("ref", time.Hour)
	assert.False(t, ok, "entry older than TTL must be a miss")
}

func TestCachePerKeyTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(clock)

	cache.Put("ref", []byte("a"))
	clock.Advance(2 * time.Hour)

	// The same entry can be fresh under one threshold and stale under another.
	_, ok := cache.Get("ref", 24*time.Hour)
	assert.True(t, ok)
	_, ok = cache.Get("ref", time.Hour)
	assert.False(t, ok)
}

func TestCacheMissingKey(t *testing.T) {
	cache := NewCache(nil)
	_, ok := cache.Get("absent", time.Hour)
	assert.False(t, ok)
}

func TestCachePutOverwrites(t *testing.T) {
	clock := &fakeClock{now: time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(clock)

	cache.Put("ref", []byte("old"))
	clock.Advance(2 * time.Hour)
	cache.Put("ref", []byte("new"))

	data, ok := cache.Get("ref", time.Hour)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}
