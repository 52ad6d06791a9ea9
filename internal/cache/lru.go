// Package cache keeps recently rendered results in memory for a short time.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a size-bounded cache whose entries also expire after a TTL.
type LRU[V any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	order   *list.List // front is most recently used
	gen     uint64     // bumped by Purge
	now     func() time.Time
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

func NewLRU[V any](maxSize int, ttl time.Duration) *LRU[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU[V]{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns the live value for key and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[V])
	if !c.now().Before(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}
	c.order.MoveToFront(elem)
	return e.value, true
}

// Put stores value under key, evicting the least recently used entry when full.
func (c *LRU[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

// Generation identifies the cache contents between purges. Take it before
// computing a value and hand it to PutAt.
func (c *LRU[V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// PutAt stores value only if no Purge happened since gen was read, and
// reports whether it did.
func (c *LRU[V]) PutAt(gen uint64, key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.put(key, value)
	return true
}

func (c *LRU[V]) put(key string, value V) {
	e := &entry[V]{key: key, value: value, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.entries[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}
	c.entries[key] = c.order.PushFront(e)
	if c.order.Len() > c.maxSize {
		c.remove(c.order.Back())
	}
}

// Purge drops every entry.
func (c *LRU[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.order.Init()
	c.gen++
}

// Expire removes the entries past their TTL and reports how many went.
func (c *LRU[V]) Expire() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if !now.Before(elem.Value.(*entry[V]).expiresAt) {
			c.remove(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[V]) remove(elem *list.Element) {
	delete(c.entries, elem.Value.(*entry[V]).key)
	c.order.Remove(elem)
}

// Janitor calls Expire on a fixed interval until stopped.
type Janitor struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartJanitor sweeps every cache in caches each interval.
func StartJanitor(interval time.Duration, caches ...interface{ Expire() int }) *Janitor {
	j := &Janitor{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, c := range caches {
					c.Expire()
				}
			case <-j.stop:
				return
			}
		}
	}()
	return j
}

// Stop ends the sweep and waits for it. Safe to call more than once.
func (j *Janitor) Stop() {
	j.once.Do(func() {
		close(j.stop)
		<-j.done
	})
}
