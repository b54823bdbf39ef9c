package identity

import (
	"sync"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
)

type principalEntry struct {
	principal user.Principal
	expiresAt time.Time
}

// inMemoryPrincipalCache keeps verified principals keyed by token hash.
// A non-positive ttl disables caching.
type inMemoryPrincipalCache struct {
	mu         sync.Mutex
	entries    map[string]principalEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func newInMemoryPrincipalCache(ttl time.Duration, maxEntries int) *inMemoryPrincipalCache {
	return &inMemoryPrincipalCache{
		entries:    make(map[string]principalEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *inMemoryPrincipalCache) Get(key string) (user.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return user.Principal{}, false
	}
	if !entry.expiresAt.After(c.now()) {
		delete(c.entries, key)
		return user.Principal{}, false
	}
	return entry.principal, true
}

func (c *inMemoryPrincipalCache) Set(key string, principal user.Principal) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictExpired(now)
		if len(c.entries) >= c.maxEntries {
			c.evictSoonest()
		}
	}

	c.entries[key] = principalEntry{
		principal: principal,
		expiresAt: now.Add(c.ttl),
	}
}

func (c *inMemoryPrincipalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *inMemoryPrincipalCache) evictExpired(now time.Time) {
	for key, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
}

func (c *inMemoryPrincipalCache) evictSoonest() {
	var (
		victim string
		oldest time.Time
	)
	for key, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(oldest) {
			victim, oldest = key, entry.expiresAt
		}
	}
	delete(c.entries, victim)
}
