package respcache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/respcache"
)

func TestCache_ExpiredEntryIsNotRemovedByGet(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(0, 0).UTC())
	c := New(clk, time.Hour)
	ctx := context.Background()
	p := respcache.Params{"location": "Paris"}

	if err := c.Put(ctx, "location_overview", p, []byte("x")); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	clk.Advance(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "location_overview", p); hit {
		t.Fatalf("expected miss after ttl")
	}
	if c.Len() != 1 {
		t.Fatalf("Len()=%d, want 1 (lazy expiry)", c.Len())
	}
	if n := c.Sweep(); n != 1 || c.Len() != 0 {
		t.Fatalf("Sweep()=%d Len()=%d", n, c.Len())
	}
}

func TestCache_MaxEntriesEvictsOldest(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(0, 0).UTC())
	c := New(clk, time.Hour, WithMaxEntries(2))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.Put(ctx, "e", respcache.Params{"i": i}, []byte(fmt.Sprint(i))); err != nil {
			t.Fatalf("Put(%d) err=%v", i, err)
		}
		clk.Advance(time.Second)
	}
	if c.Len() != 2 {
		t.Fatalf("Len()=%d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "e", respcache.Params{"i": 0}); hit {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if got, hit, _ := c.Get(ctx, "e", respcache.Params{"i": 2}); !hit || string(got) != "2" {
		t.Fatalf("Get(i=2)=%q hit=%v", got, hit)
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	t.Parallel()

	c := New(memclock.NewManualClock(time.Unix(0, 0).UTC()), time.Hour)
	ctx := context.Background()
	payload := []byte("abc")
	_ = c.Put(ctx, "e", nil, payload)
	payload[0] = 'z'

	got, _, _ := c.Get(ctx, "e", nil)
	got[1] = 'z'
	again, _, _ := c.Get(ctx, "e", nil)
	if string(again) != "abc" {
		t.Fatalf("stored payload was aliased: %q", again)
	}
}

func TestCache_ConcurrentUse(t *testing.T) {
	t.Parallel()

	c := New(memclock.NewManualClock(time.Unix(0, 0).UTC()), time.Hour, WithMaxEntries(16))
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := respcache.Params{"i": i % 8}
			_ = c.Put(ctx, "e", p, []byte("v"))
			_, _, _ = c.Get(ctx, "e", p)
			c.Sweep()
		}(i)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Fatalf("Len()=%d exceeds cap", c.Len())
	}
}

func TestCache_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	c := New(memclock.NewManualClock(time.Unix(0, 0).UTC()), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
