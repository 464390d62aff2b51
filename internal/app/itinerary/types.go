package itinerary

import (
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// NewItem is the input of AddItem. A nil Cost is stored as 0.
type NewItem struct {
	Day      int
	Time     *string
	Activity string
	Location *string
	Coord    *domain.Coordinate
	Cost     *float64
	Notes    string
}

// DayGroup holds the items of one plan day in display order.
type DayGroup struct {
	Day   int
	Date  time.Time
	Items []domain.ItineraryItem
}

// CategoryCost is the spend attributed to one activity category.
type CategoryCost struct {
	Category string
	Total    float64
}

// Views is everything derived from a plan and its items. It is recomputed after every mutation.
type Views struct {
	// Items are in display order: day, then time of day, untimed last, then creation order.
	Items         []domain.ItineraryItem
	Days          []DayGroup
	TotalCost     float64
	CostBreakdown []CategoryCost
	DayDates      []time.Time

	Budget          *float64
	RemainingBudget *float64
}

type ItemResult struct {
	Item  domain.ItineraryItem
	Views Views
}

type ScheduleResult struct {
	Item domain.ItineraryItem
	// DisplayTime is the 12-hour rendering of the stored time ("" when unscheduled).
	DisplayTime string
	Views       Views
}

type Itinerary struct {
	Plan   domain.Plan
	Access domain.Access
	Views  Views
}
