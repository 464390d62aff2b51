package statistics

import (
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// PlanData is one plan with its items in creation order.
type PlanData struct {
	Plan  domain.Plan
	Items []domain.ItineraryItem
}

// Input is everything Aggregate needs. Home is nil when the user has not set one.
type Input struct {
	Plans []PlanData
	Home  *domain.Coordinate
	Now   time.Time
}

// Count is a labelled tally, used for distributions and rankings.
type Count struct {
	Label string
	Count int
}

type CategoryCost struct {
	Category string
	Total    float64
}

// MonthStat covers one calendar month ("2006-01").
type MonthStat struct {
	Month string
	Trips int
	Spend float64
}

type InsightKind string

const (
	InsightSpendingUp   InsightKind = "spending_up"
	InsightSpendingDown InsightKind = "spending_down"
	InsightInactive     InsightKind = "inactive"
)

type Insight struct {
	Kind    InsightKind
	Message string
}

type Trend struct {
	Months []MonthStat
	// RecentAverageSpend is the mean spend of the current and two previous months.
	RecentAverageSpend float64
	// MonthlyAverageSpend is the mean spend per month from the first trip month to now.
	MonthlyAverageSpend float64
	Insights            []Insight
}

// MapPoint locates a plan for the travel map.
type MapPoint struct {
	PlanID domain.PlanID
	Title  string
	Name   string
	Coord  domain.Coordinate
}

type Statistics struct {
	TotalTrips      int
	TotalDays       int
	TotalDistanceKm float64
	TotalCost       float64
	CostBreakdown   []CategoryCost

	VisitedCities    []string
	VisitedCountries []string
	CitiesThisYear   []string
	TopInterests     []string

	DurationDistribution []Count
	SeasonalDistribution []Count
	DestinationFrequency []Count

	Trend     Trend
	MapPoints []MapPoint
}

type SuggestionKind string

const (
	SuggestionDestination SuggestionKind = "destination"
	SuggestionInterest    SuggestionKind = "interest"
	SuggestionHabit       SuggestionKind = "habit"
)

type Suggestion struct {
	Title       string
	Description string
	Kind        SuggestionKind
}
