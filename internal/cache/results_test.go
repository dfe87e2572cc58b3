package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/falcon-mcp/pkg/client"
)

func TestResultCache_PutGet(t *testing.T) {
	c := NewResultCache(8, time.Minute)
	results := []client.SearchResult{{JobID: "j1"}}

	_, ok := c.Get("deadbeef")
	assert.False(t, ok)

	c.Put("deadbeef", results)
	got, ok := c.Get("deadbeef")
	require.True(t, ok)
	assert.Equal(t, results, got)
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_EmptyResultIsHit(t *testing.T) {
	c := NewResultCache(8, time.Minute)
	c.Put("unknown", []client.SearchResult{})

	got, ok := c.Get("unknown")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestResultCache_EvictsLeastRecent(t *testing.T) {
	c := NewResultCache(2, 0)
	c.Put("a", nil)
	c.Put("b", nil)
	_, _ = c.Get("a")
	c.Put("c", nil)

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.True(t, okA)
	assert.False(t, okB)
}

func TestResultCache_Expires(t *testing.T) {
	c := NewResultCache(8, 20*time.Millisecond)
	c.Put("a", []client.SearchResult{{JobID: "j1"}})

	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestResultCache_Purge(t *testing.T) {
	c := NewResultCache(8, time.Minute)
	c.Put("a", nil)
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_NilSafe(t *testing.T) {
	var c *ResultCache
	c.Put("a", nil)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
