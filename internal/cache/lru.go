package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry struct {
	key     string
	value   []byte
	expires time.Time
	element *list.Element
}

// LRU is a bounded in-process Client with per-entry expiry.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*entry
	order    *list.List
	now      func() time.Time
}

// NewLRU creates an LRU cache with capacity and default TTL. A non-positive TTL never expires.
func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 512
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*entry, capacity),
		order:    list.New(),
		now:      time.Now,
	}
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		if ent.expires.IsZero() || c.now().Before(ent.expires) {
			c.order.MoveToFront(ent.element)
			return ent.value, nil
		}
		c.removeEntry(ent)
	}
	return nil, ErrCacheMiss
}

func (c *LRU) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.value = value
		ent.expires = c.computeExpiry(ttl)
		c.order.MoveToFront(ent.element)
		return nil
	}

	if len(c.items) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(key)
	c.items[key] = &entry{
		key:     key,
		value:   value,
		expires: c.computeExpiry(ttl),
		element: elem,
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *LRU) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry, c.capacity)
	c.order.Init()
}

func (c *LRU) Close() error {
	c.Purge()
	return nil
}

func (c *LRU) computeExpiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

func (c *LRU) evictOldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	key := elem.Value.(string)
	if ent, ok := c.items[key]; ok {
		c.removeEntry(ent)
	}
}

func (c *LRU) removeEntry(ent *entry) {
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}
