package statistics

import (
	"math"
	"testing"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/platform/geo"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func trip(id, dest string, start time.Time, days int, items ...domain.ItineraryItem) PlanData {
	return PlanData{
		Plan: domain.Plan{
			ID:          domain.PlanID(id),
			Title:       id,
			Destination: dest,
			StartDate:   start,
			EndDate:     start.AddDate(0, 0, days-1),
		},
		Items: items,
	}
}

func TestAggregate_ParisExample(t *testing.T) {
	t.Parallel()

	st := Aggregate(Input{
		Now: day(2025, 6, 1),
		Plans: []PlanData{
			trip("a", "Paris, France", day(2025, 1, 10), 3, domain.ItineraryItem{Activity: "Louvre tour", Cost: 100}),
			trip("b", "Paris, France", day(2025, 4, 2), 5, domain.ItineraryItem{Activity: "Dinner cruise", Cost: 300}),
		},
	})

	if st.TotalCost != 400 {
		t.Fatalf("TotalCost=%v, want 400", st.TotalCost)
	}
	if len(st.DestinationFrequency) != 1 || st.DestinationFrequency[0] != (Count{Label: "Paris, France", Count: 2}) {
		t.Fatalf("DestinationFrequency=%+v", st.DestinationFrequency)
	}
	if st.TotalTrips != 2 || st.TotalDays != 8 {
		t.Fatalf("TotalTrips=%d TotalDays=%d", st.TotalTrips, st.TotalDays)
	}
	if len(st.VisitedCities) != 1 || st.VisitedCities[0] != "Paris" || len(st.VisitedCountries) != 1 || st.VisitedCountries[0] != "France" {
		t.Fatalf("cities=%v countries=%v", st.VisitedCities, st.VisitedCountries)
	}
}

func TestAggregate_VisitedPlacesIgnoreCase(t *testing.T) {
	t.Parallel()

	st := Aggregate(Input{Now: day(2025, 6, 1), Plans: []PlanData{
		trip("a", "Paris, France", day(2025, 1, 1), 2),
		trip("b", "paris, FRANCE", day(2025, 3, 1), 2),
		trip("c", "Lyon, france", day(2025, 4, 1), 2),
	}})
	if len(st.VisitedCities) != 2 || st.VisitedCities[0] != "Paris" || st.VisitedCities[1] != "Lyon" {
		t.Fatalf("cities=%v", st.VisitedCities)
	}
	if len(st.VisitedCountries) != 1 || st.VisitedCountries[0] != "France" {
		t.Fatalf("countries=%v", st.VisitedCountries)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	t.Parallel()

	st := Aggregate(Input{Now: day(2025, 6, 1)})
	if st.TotalTrips != 0 || st.TotalCost != 0 || st.TotalDistanceKm != 0 {
		t.Fatalf("st=%+v", st)
	}
	if len(st.DurationDistribution) != 5 || len(st.SeasonalDistribution) != 4 || len(st.Trend.Insights) != 0 {
		t.Fatalf("distributions=%+v %+v insights=%+v", st.DurationDistribution, st.SeasonalDistribution, st.Trend.Insights)
	}
}

func TestAggregate_DistanceUsesDestinationThenFirstScheduledItem(t *testing.T) {
	t.Parallel()

	home := domain.Coordinate{Lat: 51.5074, Lng: -0.1278}
	paris := domain.Coordinate{Lat: 48.8566, Lng: 2.3522}
	rome := domain.Coordinate{Lat: 41.9028, Lng: 12.4964}
	milan := domain.Coordinate{Lat: 45.4642, Lng: 9.19}

	withDest := trip("a", "Paris, France", day(2025, 1, 1), 2)
	withDest.Plan.DestinationCoord = &paris

	fromItems := trip("b", "Italy", day(2025, 2, 1), 4,
		domain.ItineraryItem{ID: "late", Day: 2, Coord: &milan},
		domain.ItineraryItem{ID: "first", Day: 1, Coord: &rome},
	)
	noCoords := trip("c", "Nowhere", day(2025, 3, 1), 1, domain.ItineraryItem{Day: 1, Activity: "Walk"})

	st := Aggregate(Input{Now: day(2025, 6, 1), Home: &home, Plans: []PlanData{withDest, fromItems, noCoords}})

	want := geo.HaversineKm(home, paris) + geo.HaversineKm(home, rome)
	if math.Abs(st.TotalDistanceKm-want) > 1e-9 {
		t.Fatalf("TotalDistanceKm=%v, want %v", st.TotalDistanceKm, want)
	}
	if len(st.MapPoints) != 2 || st.MapPoints[1].Coord != rome {
		t.Fatalf("MapPoints=%+v", st.MapPoints)
	}
	if len(st.VisitedCountries) != 1 {
		t.Fatalf("a destination without a comma must not add a country: %v", st.VisitedCountries)
	}

	st = Aggregate(Input{Now: day(2025, 6, 1), Plans: []PlanData{withDest}})
	if st.TotalDistanceKm != 0 {
		t.Fatalf("no home: TotalDistanceKm=%v, want 0", st.TotalDistanceKm)
	}
}

func TestAggregate_TopInterestsTiesByFirstOccurrence(t *testing.T) {
	t.Parallel()

	a := trip("a", "X", day(2025, 1, 1), 1)
	a.Plan.Interests = "hiking, food, art"
	b := trip("b", "Y", day(2025, 2, 1), 1)
	b.Plan.Interests = "museums, Food"
	c := trip("c", "Z", day(2025, 3, 1), 1)
	c.Plan.Interests = "art"

	st := Aggregate(Input{Now: day(2025, 6, 1), Plans: []PlanData{c, b, a}})
	want := []string{"food", "art", "hiking"}
	if len(st.TopInterests) != 3 {
		t.Fatalf("TopInterests=%v", st.TopInterests)
	}
	for i := range want {
		if st.TopInterests[i] != want[i] {
			t.Fatalf("TopInterests=%v, want %v", st.TopInterests, want)
		}
	}
}

func TestAggregate_Distributions(t *testing.T) {
	t.Parallel()

	st := Aggregate(Input{
		Now: day(2025, 12, 31),
		Plans: []PlanData{
			trip("a", "A", day(2025, 1, 5), 3),
			trip("b", "B", day(2025, 4, 5), 7),
			trip("c", "C", day(2025, 7, 5), 14),
			trip("d", "D", day(2025, 10, 5), 30),
			trip("e", "E", day(2024, 12, 5), 31),
		},
	})
	for i, want := range []int{1, 1, 1, 1, 1} {
		if st.DurationDistribution[i].Count != want {
			t.Fatalf("DurationDistribution=%+v", st.DurationDistribution)
		}
	}
	wantSeasons := map[string]int{"Winter": 2, "Spring": 1, "Summer": 1, "Autumn": 1}
	for _, c := range st.SeasonalDistribution {
		if wantSeasons[c.Label] != c.Count {
			t.Fatalf("SeasonalDistribution=%+v", st.SeasonalDistribution)
		}
	}
	if len(st.CitiesThisYear) != 4 {
		t.Fatalf("CitiesThisYear=%v", st.CitiesThisYear)
	}
}

func TestAggregate_DestinationFrequencyTopTen(t *testing.T) {
	t.Parallel()

	var plans []PlanData
	for i := 0; i < 12; i++ {
		plans = append(plans, trip(string(rune('a'+i)), string(rune('A'+i)), day(2025, 1, 1+i), 1))
	}
	plans = append(plans, trip("z", "L", day(2025, 2, 1), 1))

	st := Aggregate(Input{Now: day(2025, 6, 1), Plans: plans})
	if len(st.DestinationFrequency) != 10 {
		t.Fatalf("len=%d, want 10", len(st.DestinationFrequency))
	}
	if st.DestinationFrequency[0] != (Count{Label: "L", Count: 2}) || st.DestinationFrequency[1].Label != "A" {
		t.Fatalf("DestinationFrequency=%+v", st.DestinationFrequency)
	}
}

func TestAggregate_TrendInsights(t *testing.T) {
	t.Parallel()

	now := day(2025, 6, 15)
	cost := func(v float64) domain.ItineraryItem { return domain.ItineraryItem{Activity: "Stuff", Cost: v} }

	// Jan..Jun span six months; recent spend (Apr..Jun) dominates.
	up := Aggregate(Input{Now: now, Plans: []PlanData{
		trip("a", "A", day(2025, 1, 1), 1, cost(100)),
		trip("b", "B", day(2025, 5, 1), 1, cost(900)),
	}})
	if !hasInsight(up.Trend, InsightSpendingUp) {
		t.Fatalf("expected spending_up, trend=%+v", up.Trend)
	}
	if len(up.Trend.Months) != 6 || up.Trend.Months[4].Spend != 900 {
		t.Fatalf("Months=%+v", up.Trend.Months)
	}

	down := Aggregate(Input{Now: now, Plans: []PlanData{
		trip("a", "A", day(2025, 1, 1), 1, cost(900)),
		trip("b", "B", day(2025, 5, 1), 1, cost(10)),
	}})
	if !hasInsight(down.Trend, InsightSpendingDown) {
		t.Fatalf("expected spending_down, trend=%+v", down.Trend)
	}

	// A single month of history is its own recent window.
	fresh := Aggregate(Input{Now: now, Plans: []PlanData{
		trip("a", "A", day(2025, 6, 1), 1, cost(300)),
	}})
	if fresh.Trend.RecentAverageSpend != 300 || fresh.Trend.MonthlyAverageSpend != 300 {
		t.Fatalf("recent=%v monthly=%v", fresh.Trend.RecentAverageSpend, fresh.Trend.MonthlyAverageSpend)
	}
	if hasInsight(fresh.Trend, InsightSpendingDown) || hasInsight(fresh.Trend, InsightSpendingUp) {
		t.Fatalf("one month of history must not produce a spending insight, got %+v", fresh.Trend.Insights)
	}

	inactive := Aggregate(Input{Now: now, Plans: []PlanData{
		trip("a", "A", day(2024, 1, 1), 1),
		trip("b", "B", day(2024, 3, 1), 1),
		trip("c", "C", day(2024, 8, 1), 1),
	}})
	if !hasInsight(inactive.Trend, InsightInactive) {
		t.Fatalf("expected inactive, trend=%+v", inactive.Trend)
	}

	few := Aggregate(Input{Now: now, Plans: []PlanData{
		trip("a", "A", day(2024, 1, 1), 1),
		trip("b", "B", day(2024, 3, 1), 1),
	}})
	if hasInsight(few.Trend, InsightInactive) {
		t.Fatalf("fewer than three trips must not flag inactivity")
	}
}

func hasInsight(tr Trend, k InsightKind) bool {
	for _, i := range tr.Insights {
		if i.Kind == k {
			return true
		}
	}
	return false
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	st := Statistics{TotalTrips: 2, VisitedCountries: []string{"France", "Spain"}, TopInterests: []string{"food"}}
	got := Suggest(st)
	if len(got) != 3 || got[0].Kind != SuggestionDestination || got[1].Kind != SuggestionInterest || got[2].Kind != SuggestionHabit {
		t.Fatalf("Suggest()=%+v", got)
	}
	for _, c := range NearbyCountries(st.VisitedCountries) {
		if c == "France" || c == "Spain" {
			t.Fatalf("visited country %q suggested", c)
		}
	}
	if len(Suggest(Statistics{})) != 0 {
		t.Fatalf("no history should yield no suggestions")
	}
}
