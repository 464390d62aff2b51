package contracttest

import (
	"context"
	"testing"
	"time"

	respcacheport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
)

// CacheTTL is the TTL factories must configure for RunResponseCache.
const CacheTTL = time.Hour

// AdvanceFunc moves the cache's notion of "now" forward.
type AdvanceFunc func(d time.Duration)

type ResponseCacheFactory func(t *testing.T) (respcacheport.Cache, AdvanceFunc, CleanupFunc)

func RunResponseCache(t *testing.T, newCache ResponseCacheFactory) {
	t.Helper()
	ctx := context.Background()

	cache, advance, cleanup := newCache(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	params := respcacheport.Params{"destination": "tokyo", "day": 1}
	if _, hit, err := cache.Get(ctx, "activity_recommendations", params); err != nil || hit {
		t.Fatalf("Get on empty cache: hit=%v err=%v", hit, err)
	}

	if err := cache.Put(ctx, "activity_recommendations", params, []byte(`[1]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, hit, err := cache.Get(ctx, "activity_recommendations", respcacheport.Params{"day": 1, "destination": "tokyo"})
	if err != nil || !hit || string(got) != `[1]` {
		t.Fatalf("Get after Put: payload=%q hit=%v err=%v", got, hit, err)
	}

	// Endpoint participates in the key.
	if _, hit, _ := cache.Get(ctx, "location_overview", params); hit {
		t.Fatalf("expected miss for a different endpoint")
	}

	// Last writer wins.
	if err := cache.Put(ctx, "activity_recommendations", params, []byte(`[2]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _, _ = cache.Get(ctx, "activity_recommendations", params)
	if string(got) != `[2]` {
		t.Fatalf("expected overwritten payload, got %q", got)
	}

	advance(CacheTTL - time.Second)
	if _, hit, _ := cache.Get(ctx, "activity_recommendations", params); !hit {
		t.Fatalf("expected hit just inside ttl")
	}
	advance(time.Second)
	if _, hit, _ := cache.Get(ctx, "activity_recommendations", params); hit {
		t.Fatalf("expected miss once ttl has elapsed")
	}
}
