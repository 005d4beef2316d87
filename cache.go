package permkit

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached effective permission set stays fresh.
const DefaultCacheTTL = 15 * time.Minute

type memoryCacheEntry struct {
	set      *EffectivePermissions
	storedAt time.Time
}

// MemoryCache is an in-process Cache keyed by user id. Entries older than the
// TTL are dropped on the next read. The cache is unbounded and performs no
// eviction beyond TTL staleness and explicit invalidation; it assumes a
// bounded user population.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[string]memoryCacheEntry
}

// NewMemoryCache creates a MemoryCache. A non-positive ttl falls back to
// DefaultCacheTTL; a nil clock falls back to the system clock.
func NewMemoryCache(ttl time.Duration, clock Clock) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &MemoryCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]memoryCacheEntry),
	}
}

// Get returns the cached set for a user. A hit requires a stored entry whose
// age is within the TTL; a stale entry is removed and reported as a miss.
func (c *MemoryCache) Get(_ context.Context, userID string) (*EffectivePermissions, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, userID)
		return nil, false
	}
	return entry.set, true
}

// Put stores the set for a user, stamping it with the current time.
func (c *MemoryCache) Put(_ context.Context, userID string, set *EffectivePermissions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = memoryCacheEntry{set: set, storedAt: c.clock.Now()}
}

// Invalidate removes a single user's entry unconditionally.
func (c *MemoryCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// InvalidateAll removes every entry unconditionally.
func (c *MemoryCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryCacheEntry)
}

// Len returns the number of stored entries, stale ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
