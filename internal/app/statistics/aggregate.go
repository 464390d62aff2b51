package statistics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/itinerary"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/geo"
)

const (
	topInterestsLimit    = 3
	topDestinationsLimit = 10
	recentMonths         = 3
	inactiveMonths       = 6
	inactiveMinTrips     = 3
	trendThreshold       = 0.20
)

var durationBuckets = []struct {
	label    string
	min, max int
}{
	{"1-3", 1, 3},
	{"4-7", 4, 7},
	{"8-14", 8, 14},
	{"15-30", 15, 30},
	{"30+", 31, 0},
}

var seasons = []string{"Winter", "Spring", "Summer", "Autumn"}

// Aggregate reduces a user's trip history to statistics. Missing optional data (coordinates,
// costs, interests, home) contributes zero or nothing; it never fails.
//
// Plans are processed by start date, then creation time, so rankings that break ties by first
// occurrence are stable.
func Aggregate(in Input) Statistics {
	plans := make([]PlanData, len(in.Plans))
	copy(plans, in.Plans)
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i].Plan, plans[j].Plan
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	st := Statistics{
		TotalTrips:       len(plans),
		CostBreakdown:    []CategoryCost{},
		VisitedCities:    []string{},
		VisitedCountries: []string{},
		CitiesThisYear:   []string{},
		MapPoints:        []MapPoint{},
	}

	cities := newOrderedSet()
	countries := newOrderedSet()
	thisYear := newOrderedSet()
	interests := newTally()
	destinations := newTally()
	durations := make([]int, len(durationBuckets))
	seasonCounts := make([]int, len(seasons))
	catIdx := map[string]int{}
	year := in.Now.UTC().Year()

	for _, pd := range plans {
		p := pd.Plan
		days := p.DurationDays()
		st.TotalDays += days
		durations[durationBucket(days)]++
		seasonCounts[seasonIndex(p.StartDate.Month())]++

		city, country := domain.SplitDestination(p.Destination)
		if city != "" {
			cities.add(city)
			if p.StartDate.UTC().Year() == year {
				thisYear.add(city)
			}
		}
		if country != "" {
			countries.add(country)
		}
		if p.Destination != "" {
			destinations.add(p.Destination)
		}
		for _, tok := range domain.InterestTokens(p.Interests) {
			interests.add(tok)
		}

		if c := planCoordinate(pd); c != nil {
			st.MapPoints = append(st.MapPoints, MapPoint{PlanID: p.ID, Title: p.Title, Name: p.Destination, Coord: *c})
			if in.Home != nil {
				st.TotalDistanceKm += geo.HaversineKm(*in.Home, *c)
			}
		}

		for _, it := range pd.Items {
			if it.Cost <= 0 {
				continue
			}
			st.TotalCost += it.Cost
			cat := domain.ActivityCategory(it.Activity)
			i, ok := catIdx[cat]
			if !ok {
				i = len(st.CostBreakdown)
				catIdx[cat] = i
				st.CostBreakdown = append(st.CostBreakdown, CategoryCost{Category: cat})
			}
			st.CostBreakdown[i].Total += it.Cost
		}
	}

	st.VisitedCities = cities.items
	st.VisitedCountries = countries.items
	st.CitiesThisYear = thisYear.items
	for _, c := range interests.top(topInterestsLimit) {
		st.TopInterests = append(st.TopInterests, c.Label)
	}
	if st.TopInterests == nil {
		st.TopInterests = []string{}
	}
	st.DestinationFrequency = destinations.top(topDestinationsLimit)

	st.DurationDistribution = make([]Count, len(durationBuckets))
	for i, b := range durationBuckets {
		st.DurationDistribution[i] = Count{Label: b.label, Count: durations[i]}
	}
	st.SeasonalDistribution = make([]Count, len(seasons))
	for i, s := range seasons {
		st.SeasonalDistribution[i] = Count{Label: s, Count: seasonCounts[i]}
	}

	st.Trend = trend(plans, in.Now)
	return st
}

// planCoordinate is the destination coordinate, else the first scheduled item with one.
func planCoordinate(pd PlanData) *domain.Coordinate {
	if pd.Plan.DestinationCoord != nil && pd.Plan.DestinationCoord.Valid() {
		c := *pd.Plan.DestinationCoord
		return &c
	}
	for _, it := range itinerary.DeriveViews(pd.Plan, pd.Items).Items {
		if it.Coord != nil && it.Coord.Valid() {
			c := *it.Coord
			return &c
		}
	}
	return nil
}

func durationBucket(days int) int {
	for i, b := range durationBuckets {
		if days >= b.min && (b.max == 0 || days <= b.max) {
			return i
		}
	}
	return 0
}

func seasonIndex(m time.Month) int {
	switch m {
	case time.March, time.April, time.May:
		return 1
	case time.June, time.July, time.August:
		return 2
	case time.September, time.October, time.November:
		return 3
	default:
		return 0
	}
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func trend(plans []PlanData, now time.Time) Trend {
	tr := Trend{Months: []MonthStat{}, Insights: []Insight{}}
	if len(plans) == 0 {
		return tr
	}

	spendByMonth := map[time.Time]float64{}
	tripsByMonth := map[time.Time]int{}
	first := monthStart(plans[0].Plan.StartDate)
	last := monthStart(now)
	recentTrips := 0
	sixMonthsAgo := now.UTC().AddDate(0, -inactiveMonths, 0)

	for _, pd := range plans {
		m := monthStart(pd.Plan.StartDate)
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		tripsByMonth[m]++
		for _, it := range pd.Items {
			if it.Cost > 0 {
				spendByMonth[m] += it.Cost
			}
		}
		start := pd.Plan.StartDate.UTC()
		if !start.Before(sixMonthsAgo) && !start.After(now.UTC()) {
			recentTrips++
		}
	}

	nowMonth := monthStart(now)
	recentFrom := nowMonth.AddDate(0, -(recentMonths - 1), 0)
	var total, recent float64
	span, recentSpan := 0, 0
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		ms := MonthStat{Month: m.Format("2006-01"), Trips: tripsByMonth[m], Spend: spendByMonth[m]}
		tr.Months = append(tr.Months, ms)
		if m.After(nowMonth) {
			continue
		}
		span++
		total += ms.Spend
		if !m.Before(recentFrom) {
			recent += ms.Spend
			recentSpan++
		}
	}

	if span > 0 {
		tr.MonthlyAverageSpend = total / float64(span)
	}
	// The recent window never reaches back before the first trip.
	if recentSpan > 0 {
		tr.RecentAverageSpend = recent / float64(recentSpan)
	}

	if tr.MonthlyAverageSpend > 0 {
		switch {
		case tr.RecentAverageSpend > tr.MonthlyAverageSpend*(1+trendThreshold):
			tr.Insights = append(tr.Insights, Insight{
				Kind:    InsightSpendingUp,
				Message: fmt.Sprintf("Your spending over the last %d months is %.0f%% above your monthly average.", recentSpan, pctDiff(tr.RecentAverageSpend, tr.MonthlyAverageSpend)),
			})
		case tr.RecentAverageSpend < tr.MonthlyAverageSpend*(1-trendThreshold):
			tr.Insights = append(tr.Insights, Insight{
				Kind:    InsightSpendingDown,
				Message: fmt.Sprintf("Your spending over the last %d months is %.0f%% below your monthly average.", recentSpan, -pctDiff(tr.RecentAverageSpend, tr.MonthlyAverageSpend)),
			})
		}
	}
	if recentTrips == 0 && len(plans) >= inactiveMinTrips {
		tr.Insights = append(tr.Insights, Insight{
			Kind:    InsightInactive,
			Message: fmt.Sprintf("You have not travelled in the last %d months. Time to plan your next trip?", inactiveMonths),
		})
	}
	return tr
}

func pctDiff(v, base float64) float64 {
	return (v - base) / base * 100
}

// orderedSet keeps case-insensitively distinct strings in first-seen spelling and order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	k := strings.ToLower(v)
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
}

// tally counts case-insensitively and reports the first-seen spelling.
type tally struct {
	idx    map[string]int
	counts []Count
}

func newTally() *tally { return &tally{idx: map[string]int{}} }

func (t *tally) add(label string) {
	k := strings.ToLower(label)
	i, ok := t.idx[k]
	if !ok {
		i = len(t.counts)
		t.idx[k] = i
		t.counts = append(t.counts, Count{Label: label})
	}
	t.counts[i].Count++
}

// top returns at most n entries by count descending; ties keep first-seen order.
func (t *tally) top(n int) []Count {
	out := make([]Count, len(t.counts))
	copy(out, t.counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
