package users

import "github.com/Overland-East-Bay/travel-planner-api/internal/domain"

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

type CreateMeInput struct {
	DisplayName string
	Email       string
}

type UpdateMeInput struct {
	DisplayName Optional[string] // cannot be null
	Email       Optional[string] // cannot be null
}

// SetHomeInput sets the home location. When Coord is nil the address is geocoded.
type SetHomeInput struct {
	Address string
	Coord   *domain.Coordinate
}
