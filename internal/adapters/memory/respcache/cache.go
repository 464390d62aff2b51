package respcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
)

type entry struct {
	storedAt time.Time
	payload  []byte
}

// Cache is an in-memory implementation of respcache.Cache.
// It is safe for concurrent use.
type Cache struct {
	clk        clock.Clock
	ttl        time.Duration
	maxEntries int

	mu sync.RWMutex
	m  map[string]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries caps the number of stored entries; the oldest entries are evicted first.
// n <= 0 means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) { c.maxEntries = n }
}

func New(clk clock.Clock, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		clk: clk,
		ttl: ttl,
		m:   make(map[string]entry),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Cache) Get(ctx context.Context, endpoint string, params respcache.Params) ([]byte, bool, error) {
	_ = ctx
	key, err := respcache.Key(endpoint, params)
	if err != nil {
		return nil, false, err
	}
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.expired(e, c.clk.Now()) {
		return nil, false, nil
	}
	return append([]byte(nil), e.payload...), true, nil
}

func (c *Cache) Put(ctx context.Context, endpoint string, params respcache.Params, payload []byte) error {
	_ = ctx
	key, err := respcache.Key(endpoint, params)
	if err != nil {
		return err
	}
	e := entry{storedAt: c.clk.Now(), payload: append([]byte(nil), payload...)}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = e
	if c.maxEntries > 0 && len(c.m) > c.maxEntries {
		c.evictOldestLocked(len(c.m) - c.maxEntries)
	}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	now := c.clk.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.m {
		if c.expired(e, now) {
			delete(c.m, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Sweep()
		}
	}
}

func (c *Cache) expired(e entry, now time.Time) bool {
	return now.Sub(e.storedAt) >= c.ttl
}

func (c *Cache) evictOldestLocked(n int) {
	type aged struct {
		key string
		at  time.Time
	}
	all := make([]aged, 0, len(c.m))
	for k, e := range c.m {
		all = append(all, aged{key: k, at: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].at.Equal(all[j].at) {
			return all[i].at.Before(all[j].at)
		}
		return all[i].key < all[j].key
	})
	for i := 0; i < n && i < len(all); i++ {
		delete(c.m, all[i].key)
	}
}
