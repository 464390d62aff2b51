package domain

import "time"

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Plan is the domain read model of a travel plan.
type Plan struct {
	ID      PlanID
	OwnerID UserID

	Title       string
	Destination string
	// DestinationCoord is nil when the destination was never geocoded.
	DestinationCoord *Coordinate

	StartDate time.Time // date-only semantics at the edges
	EndDate   time.Time // date-only semantics at the edges

	Budget    *float64
	Interests string

	Visibility Visibility
	// ShareCode is an unguessable token for public links; nil means no link was issued.
	ShareCode *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Plan) IsPublic() bool { return p.Visibility == VisibilityPublic }

// DurationDays is the inclusive number of calendar days covered by the plan (end - start + 1).
func (p Plan) DurationDays() int {
	return DaysBetween(p.StartDate, p.EndDate) + 1
}

// DayDate returns the calendar date of a 1-based plan day.
func (p Plan) DayDate(day int) time.Time {
	return DateOnly(p.StartDate).AddDate(0, 0, day-1)
}

// ItineraryItem is a single scheduled activity within a plan.
type ItineraryItem struct {
	ID     ItemID
	PlanID PlanID

	Day int
	// Time is the stored time of day ("15:04"); nil means unscheduled within the day.
	Time *string

	Activity string
	Location *string
	Coord    *Coordinate
	Cost     float64
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
