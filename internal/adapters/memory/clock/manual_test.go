package clock

import (
	"testing"
	"time"
)

func TestManualClock_AdvanceAndSet(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0).UTC()
	c := NewManualClock(start)
	if !c.Now().Equal(start) {
		t.Fatalf("Now()=%v, want %v", c.Now(), start)
	}
	c.Advance(time.Hour)
	if got := c.Now(); !got.Equal(start.Add(time.Hour)) {
		t.Fatalf("Now() after Advance=%v", got)
	}
	later := time.Unix(9000, 0).UTC()
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Fatalf("Now() after Set=%v, want %v", c.Now(), later)
	}
}
