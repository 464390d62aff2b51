package itinerary

import (
	"sort"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// DeriveViews computes totals, day groups, the category breakdown and budget figures.
//
// items must be in creation order; the result is the same for the same input.
func DeriveViews(p domain.Plan, items []domain.ItineraryItem) Views {
	ordered := make([]domain.ItineraryItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return lessForDisplay(ordered[i], ordered[j])
	})

	v := Views{
		Items:         ordered,
		Days:          []DayGroup{},
		CostBreakdown: []CategoryCost{},
		DayDates:      dayDates(p),
	}

	catIdx := map[string]int{}
	for _, it := range items {
		v.TotalCost += it.Cost
		if it.Cost <= 0 {
			continue
		}
		cat := domain.ActivityCategory(it.Activity)
		i, ok := catIdx[cat]
		if !ok {
			i = len(v.CostBreakdown)
			catIdx[cat] = i
			v.CostBreakdown = append(v.CostBreakdown, CategoryCost{Category: cat})
		}
		v.CostBreakdown[i].Total += it.Cost
	}

	for _, it := range ordered {
		n := len(v.Days)
		if n == 0 || v.Days[n-1].Day != it.Day {
			v.Days = append(v.Days, DayGroup{Day: it.Day, Date: p.DayDate(it.Day)})
			n++
		}
		v.Days[n-1].Items = append(v.Days[n-1].Items, it)
	}

	if p.Budget != nil {
		b := *p.Budget
		rem := b - v.TotalCost
		v.Budget = &b
		v.RemainingBudget = &rem
	}
	return v
}

func lessForDisplay(a, b domain.ItineraryItem) bool {
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	am, aok := itemMinutes(a)
	bm, bok := itemMinutes(b)
	switch {
	case aok && bok:
		return am < bm
	case aok != bok:
		return aok
	}
	return false
}

func itemMinutes(it domain.ItineraryItem) (int, bool) {
	if it.Time == nil {
		return 0, false
	}
	return domain.TimeOfDayMinutes(*it.Time)
}

func dayDates(p domain.Plan) []time.Time {
	if p.StartDate.IsZero() || p.EndDate.Before(p.StartDate) {
		return []time.Time{}
	}
	n := p.DurationDays()
	out := make([]time.Time, 0, n)
	for d := 1; d <= n; d++ {
		out = append(out, p.DayDate(d))
	}
	return out
}
