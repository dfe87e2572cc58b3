// Package cache provides caching utilities for the MCP server.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/usestring/falcon-mcp/pkg/client"
)

// ResultCache is a thread-safe LRU of search results with a TTL.
// Keys are expected to be normalized hashes.
type ResultCache struct {
	cache *expirable.LRU[string, []client.SearchResult]
}

// NewResultCache creates a cache holding at most maxItems hashes, each for at
// most ttl. A ttl of zero keeps entries until they are evicted by size.
func NewResultCache(maxItems int, ttl time.Duration) *ResultCache {
	return &ResultCache{
		cache: expirable.NewLRU[string, []client.SearchResult](maxItems, nil, ttl),
	}
}

// Get returns the cached results for a hash.
// A hit with zero results means the service reported no reports for it.
func (c *ResultCache) Get(hash string) ([]client.SearchResult, bool) {
	if c == nil {
		return nil, false
	}
	return c.cache.Get(hash)
}

// Put stores results for a hash, replacing any previous value.
func (c *ResultCache) Put(hash string, results []client.SearchResult) {
	if c == nil {
		return
	}
	c.cache.Add(hash, results)
}

// Len returns the current number of cached hashes.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}

// Purge drops every cached entry.
func (c *ResultCache) Purge() {
	if c == nil {
		return
	}
	c.cache.Purge()
}
