package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLRU(size int, ttl time.Duration) (*LRU[string], *clock) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[string](size, ttl)
	c.now = clk.now
	return c, clk
}

func TestGetPut(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", "1")
	c.Put("a", "2")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Len())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Get("a")
	c.Put("c", "3")

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestTTL(t *testing.T) {
	c, clk := newTestLRU(4, time.Minute)

	c.Put("a", "1")
	clk.t = clk.t.Add(30 * time.Second)
	c.Put("b", "2")
	clk.t = clk.t.Add(30 * time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Expire())
	assert.Equal(t, 1, c.Len())

	clk.t = clk.t.Add(time.Minute)
	assert.Equal(t, 1, c.Expire())
	assert.Equal(t, 0, c.Len())
}

func TestPurge(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)
	c.Put("a", "1")
	c.Put("b", "2")

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestJanitorStop(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)
	j := StartJanitor(time.Millisecond, c)
	j.Stop()
	j.Stop()
}

func TestPutAtDropsValueComputedBeforePurge(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)

	gen := c.Generation()
	c.Purge()
	assert.False(t, c.PutAt(gen, "a", "stale"))
	_, ok := c.Get("a")
	assert.False(t, ok)

	gen = c.Generation()
	assert.True(t, c.PutAt(gen, "a", "fresh"))
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}
