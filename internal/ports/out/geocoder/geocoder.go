package geocoder

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

var (
	// ErrNoMatch indicates the address could not be resolved.
	ErrNoMatch = errors.New("address not found")
	// ErrUnavailable indicates the geocoding service could not be reached.
	ErrUnavailable = errors.New("geocoder unavailable")
)

// Place is a resolved address.
type Place struct {
	DisplayName string
	Coord       domain.Coordinate
}

// Geocoder resolves free-form addresses to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (Place, error)
}
