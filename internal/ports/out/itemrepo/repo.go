package itemrepo

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("itinerary item not found")
	ErrAlreadyExists = errors.New("itinerary item already exists")
)

// Repository provides access to persisted itinerary items.
//
// ListByPlan returns items in creation order (created_at, then id); display ordering is
// derived by the application layer.
type Repository interface {
	Create(ctx context.Context, it domain.ItineraryItem) error
	Save(ctx context.Context, it domain.ItineraryItem) error
	Delete(ctx context.Context, id domain.ItemID) error
	DeleteByPlan(ctx context.Context, planID domain.PlanID) error

	GetByID(ctx context.Context, id domain.ItemID) (domain.ItineraryItem, error)
	ListByPlan(ctx context.Context, planID domain.PlanID) ([]domain.ItineraryItem, error)
}
