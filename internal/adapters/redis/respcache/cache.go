package respcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
)

// KeyPrefix namespaces cache keys in a shared redis.
const KeyPrefix = "respcache:"

type envelope struct {
	StoredAt time.Time `json:"stored_at"`
	Payload  []byte    `json:"payload"`
}

// Cache is a redis-backed respcache.Cache shared between API replicas.
//
// Keys carry a native expiry equal to the TTL; Get also compares stored_at with the injected
// clock so the TTL rule holds even when clocks and redis expiry disagree.
type Cache struct {
	rdb *redis.Client
	clk clock.Clock
	ttl time.Duration
}

func New(rdb *redis.Client, clk clock.Clock, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, clk: clk, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, endpoint string, params respcache.Params) ([]byte, bool, error) {
	key, err := respcache.Key(endpoint, params)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		// A foreign or truncated value is treated as a miss; the next Put overwrites it.
		return nil, false, nil
	}
	if c.clk.Now().Sub(e.StoredAt) >= c.ttl {
		return nil, false, nil
	}
	return e.Payload, true, nil
}

func (c *Cache) Put(ctx context.Context, endpoint string, params respcache.Params, payload []byte) error {
	key, err := respcache.Key(endpoint, params)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{StoredAt: c.clk.Now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.rdb.Set(ctx, KeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping verifies connectivity at startup.
func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
