package resolver

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cacheEntry struct {
	Codes      []string
	ComputedAt time.Time
}

func (e cacheEntry) Set() map[string]struct{} {
	set := make(map[string]struct{}, len(e.Codes))
	for _, c := range e.Codes {
		set[c] = struct{}{}
	}
	return set
}

// PermissionCache is the process-local effective-permission cache, keyed
// by user id. It is owned by the Resolver instance and passed in at
// construction; no distributed coherence is assumed, staleness is bounded
// by the TTL or by a forced recompute.
type PermissionCache struct {
	lru *expirable.LRU[string, cacheEntry]
	ttl time.Duration
}

func NewPermissionCache(size int, ttl time.Duration) *PermissionCache {
	return &PermissionCache{
		lru: expirable.NewLRU[string, cacheEntry](size, nil, ttl),
		ttl: ttl,
	}
}

// Get returns a live entry. Entries warmed from a persisted user snapshot
// keep the original computation time, so age is checked against
// ComputedAt, not insertion time.
func (c *PermissionCache) Get(userID string) (cacheEntry, bool) {
	entry, ok := c.lru.Get(userID)
	if !ok {
		return cacheEntry{}, false
	}
	if time.Since(entry.ComputedAt) >= c.ttl {
		c.lru.Remove(userID)
		return cacheEntry{}, false
	}
	return entry, true
}

// Put stores a fully computed set as a single replacement; concurrent
// readers see either the old entry or the new one, never a partial set.
func (c *PermissionCache) Put(userID string, codes []string, computedAt time.Time) {
	c.lru.Add(userID, cacheEntry{Codes: codes, ComputedAt: computedAt})
}

func (c *PermissionCache) Remove(userID string) {
	c.lru.Remove(userID)
}

func (c *PermissionCache) Purge() {
	c.lru.Purge()
}

func (c *PermissionCache) Len() int {
	return c.lru.Len()
}
