package itinerary

import (
	"testing"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

func strPtr(s string) *string { return &s }

func tokyoPlan() domain.Plan {
	return domain.Plan{
		ID:          "p1",
		OwnerID:     "alice",
		Destination: "Tokyo, Japan",
		StartDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestDeriveViews_TokyoExample(t *testing.T) {
	t.Parallel()

	items := []domain.ItineraryItem{
		{ID: "a", PlanID: "p1", Day: 1, Activity: "Temple visit", Cost: 20},
		{ID: "b", PlanID: "p1", Day: 1, Activity: "Sushi dinner", Cost: 40},
	}
	v := DeriveViews(tokyoPlan(), items)

	if v.TotalCost != 60 {
		t.Fatalf("TotalCost=%v, want 60", v.TotalCost)
	}
	if len(v.Days) != 1 || v.Days[0].Day != 1 || len(v.Days[0].Items) != 2 {
		t.Fatalf("Days=%+v, want one group with both items", v.Days)
	}
	if !v.Days[0].Date.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day 1 date=%v", v.Days[0].Date)
	}
	if len(v.DayDates) != 5 {
		t.Fatalf("DayDates len=%d, want 5", len(v.DayDates))
	}
}

func TestDeriveViews_EmptyTotalIsZero(t *testing.T) {
	t.Parallel()

	v := DeriveViews(tokyoPlan(), nil)
	if v.TotalCost != 0 || len(v.Items) != 0 || len(v.Days) != 0 || len(v.CostBreakdown) != 0 {
		t.Fatalf("DeriveViews(empty)=%+v", v)
	}
}

func TestDeriveViews_OrderingUntimedLast(t *testing.T) {
	t.Parallel()

	items := []domain.ItineraryItem{
		{ID: "untimed-1", Day: 2, Activity: "Walk"},
		{ID: "late", Day: 2, Time: strPtr("18:00"), Activity: "Dinner"},
		{ID: "day1", Day: 1, Activity: "Arrive"},
		{ID: "early", Day: 2, Time: strPtr("09:30"), Activity: "Breakfast"},
		{ID: "untimed-2", Day: 2, Activity: "Shopping"},
	}
	v := DeriveViews(tokyoPlan(), items)

	want := []domain.ItemID{"day1", "early", "late", "untimed-1", "untimed-2"}
	for i, id := range want {
		if v.Items[i].ID != id {
			t.Fatalf("Items[%d]=%s, want %s (got order %v)", i, v.Items[i].ID, id, ids(v.Items))
		}
	}
	if len(v.Days) != 2 || v.Days[1].Day != 2 || len(v.Days[1].Items) != 4 {
		t.Fatalf("Days=%+v", v.Days)
	}
	// Input order is untouched.
	if items[0].ID != "untimed-1" {
		t.Fatalf("DeriveViews mutated its input")
	}
}

func TestDeriveViews_CategoryBreakdownAndBudget(t *testing.T) {
	t.Parallel()

	p := tokyoPlan()
	budget := 100.0
	p.Budget = &budget
	items := []domain.ItineraryItem{
		{ID: "1", Day: 1, Activity: "Museum visit", Cost: 15},
		{ID: "2", Day: 1, Activity: "", Cost: 5},
		{ID: "3", Day: 2, Activity: "Museum of art", Cost: 10},
		{ID: "4", Day: 2, Activity: "Free walk", Cost: 0},
	}
	v := DeriveViews(p, items)

	want := []CategoryCost{{Category: "Museum", Total: 25}, {Category: domain.OtherCategory, Total: 5}}
	if len(v.CostBreakdown) != len(want) {
		t.Fatalf("CostBreakdown=%+v", v.CostBreakdown)
	}
	for i := range want {
		if v.CostBreakdown[i] != want[i] {
			t.Fatalf("CostBreakdown[%d]=%+v, want %+v", i, v.CostBreakdown[i], want[i])
		}
	}
	if v.Budget == nil || *v.Budget != 100 || v.RemainingBudget == nil || *v.RemainingBudget != 70 {
		t.Fatalf("budget=%v remaining=%v", v.Budget, v.RemainingBudget)
	}
}

func ids(items []domain.ItineraryItem) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
