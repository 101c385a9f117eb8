package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_Expiry(t *testing.T) {
	c := NewLRUCache[int](2, 20*time.Millisecond)
	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_EvictsAndPurges(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Flush(t *testing.T) {
	c := NewTTLCache(time.Minute)
	c.Set("overview", 42)

	v, ok := c.Get("overview")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	c.Flush()
	_, ok = c.Get("overview")
	assert.False(t, ok)
}
