package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultLRUSize = 64

type entry struct {
	value     []byte
	expiresAt time.Time
}

// LRU is an in-process cache with a per-entry TTL. Expired entries are dropped on read.
type LRU struct {
	items *lru.Cache[string, entry]
	now   func() time.Time
}

func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	items, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRU{items: items, now: time.Now}, nil
}

func (c *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && !c.now().Before(item.expiresAt) {
		c.items.Remove(key)
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores value; a non-positive ttl keeps the entry until it is evicted.
func (c *LRU) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := entry{value: value}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}
	c.items.Add(key, item)
	return nil
}

func (c *LRU) Delete(_ context.Context, key string) error {
	c.items.Remove(key)
	return nil
}

func (c *LRU) Len() int {
	return c.items.Len()
}
