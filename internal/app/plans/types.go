package plans

import (
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type CreatePlanInput struct {
	Title       string
	Destination string
	// DestinationCoord is looked up from Destination when nil and a geocoder is configured.
	DestinationCoord *domain.Coordinate
	StartDate        time.Time
	EndDate          time.Time
	Budget           *float64
	Interests        string
	Visibility       domain.Visibility // empty means private
}

type UpdatePlanInput struct {
	// Title and Destination cannot be null.
	Title       Optional[string]
	Destination Optional[string]

	// DestinationCoord null clears the coordinate. Changing Destination without a coordinate
	// re-resolves it.
	DestinationCoord Optional[domain.Coordinate]

	StartDate Optional[time.Time] // cannot be null
	EndDate   Optional[time.Time] // cannot be null

	Budget    Optional[float64] // null clears the budget
	Interests Optional[string]  // null clears the interests
}

// PlanView is a plan as seen by one actor.
type PlanView struct {
	Plan   domain.Plan
	Access domain.Access
	// ShareURL is the public link; empty unless the plan is public.
	ShareURL string
}
