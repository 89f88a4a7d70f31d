package client

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache keys, one per cached view. Scoped keys append the entity ID.
const (
	cacheKeyCampaigns        = "campaigns"
	cacheKeyCampaign         = "campaign:"
	cacheKeyContents         = "contents"
	cacheKeyCampaignContents = "campaign-contents:"
	cacheKeyContent          = "content:"
)

func campaignKey(id uint) string         { return fmt.Sprintf("%s%d", cacheKeyCampaign, id) }
func contentKey(id uint) string          { return fmt.Sprintf("%s%d", cacheKeyContent, id) }
func campaignContentsKey(id uint) string { return fmt.Sprintf("%s%d", cacheKeyCampaignContents, id) }

type cacheEntry struct {
	value   any
	expires time.Time
}

// queryCache is a short-lived keyed store for fetched views. Mutations
// invalidate entries instead of patching them, so the next read refetches.
type queryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newQueryCache(ttl time.Duration) *queryCache {
	return &queryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *queryCache) get(key string) (any, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

func (c *queryCache) set(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *queryCache) invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// invalidatePrefix drops every entry whose key starts with prefix. Used for
// scoped content lists when the owning campaign is not known at call time.
func (c *queryCache) invalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
