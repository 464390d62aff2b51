package respcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	memclock "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/clock"
	respcacheport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestContract_RedisResponseCache(t *testing.T) {
	contracttest.RunResponseCache(t, func(t *testing.T) (respcacheport.Cache, contracttest.AdvanceFunc, func()) {
		t.Helper()
		mr, rdb := newRedis(t)
		clk := memclock.NewManualClock(time.Unix(1_700_000_000, 0).UTC())
		advance := func(d time.Duration) {
			clk.Advance(d)
			mr.FastForward(d)
		}
		return New(rdb, clk, contracttest.CacheTTL), advance, nil
	})
}

func TestCache_SetsNativeExpiry(t *testing.T) {
	mr, rdb := newRedis(t)
	clk := memclock.NewManualClock(time.Unix(0, 0).UTC())
	c := New(rdb, clk, time.Hour)
	ctx := context.Background()

	if err := c.Put(ctx, "location_overview", respcacheport.Params{"location": "Paris"}, []byte("md")); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("keys=%v, want one", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != time.Hour {
		t.Fatalf("TTL=%v, want 1h", ttl)
	}

	mr.FastForward(time.Hour)
	if mr.Exists(keys[0]) {
		t.Fatalf("expected redis to expire the key")
	}
}

func TestCache_CorruptValueIsAMiss(t *testing.T) {
	mr, rdb := newRedis(t)
	c := New(rdb, memclock.NewManualClock(time.Unix(0, 0).UTC()), time.Hour)
	p := respcacheport.Params{"k": "v"}

	key, _ := respcacheport.Key("e", p)
	if err := mr.Set(KeyPrefix+key, "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, hit, err := c.Get(context.Background(), "e", p); err != nil || hit {
		t.Fatalf("Get() hit=%v err=%v, want miss", hit, err)
	}
}

func TestCache_PingFailsWhenServerIsDown(t *testing.T) {
	mr, rdb := newRedis(t)
	c := New(rdb, memclock.NewManualClock(time.Unix(0, 0).UTC()), time.Hour)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() err=%v", err)
	}
	mr.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected Ping() error after server shutdown")
	}
}
