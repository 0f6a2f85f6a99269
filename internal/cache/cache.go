// Package cache provides a process-local time-expiring result cache
// sitting in front of the expensive aggregation queries. Entries are
// evicted lazily on read; there is no invalidation on write, so cached
// results may be stale for up to their TTL after a mutation.
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Default TTLs. The dashboard is the most expensive query and the
// least read-sensitive, so it gets the longer window.
const (
	DefaultTTL   = 5 * time.Minute
	DashboardTTL = 10 * time.Minute
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a concurrent TTL cache keyed by query shape
type Cache struct {
	entries *xsync.MapOf[string, entry]
	ttl     time.Duration
}

// New creates a cache with the given default TTL
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: xsync.NewMapOf[string, entry](),
		ttl:     ttl,
	}
}

// Key derives a cache key from an operation name and its normalized
// parameters.
func Key(op string, params ...any) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, op)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ":")
}

// Get returns the live value for key, expiring it if its TTL has passed
func (c *Cache) Get(key string) (any, bool) {
	e, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.entries.Delete(key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value with the default TTL
func (c *Cache) Set(key string, value any) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL stores a value with an explicit TTL
func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.entries.Store(key, entry{value: value, expiresAt: time.Now().Add(ttl)})
}

// GetOrCompute returns the cached value for key, or computes and
// stores it with the given TTL on a miss. Failed computations are not
// cached.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.SetTTL(key, v, ttl)
	return v, nil
}
