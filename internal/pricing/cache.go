package pricing

import (
	"sync"
	"time"

	"github.com/lazorvault/vaultd/internal/domain"
)

const defaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	entry     domain.PricingEntry
	expiresAt time.Time
}

type entryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newEntryCache(ttl time.Duration) *entryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &entryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *entryCache) get(mint string) (domain.PricingEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[mint]
	if !ok || c.now().After(entry.expiresAt) {
		return domain.PricingEntry{}, false
	}
	return entry.entry, true
}

func (c *entryCache) set(mint string, entry domain.PricingEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[mint] = cacheEntry{
		entry:     entry,
		expiresAt: c.now().Add(c.ttl),
	}
}
