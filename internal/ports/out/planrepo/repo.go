package planrepo

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

var (
	ErrNotFound      = errors.New("plan not found")
	ErrAlreadyExists = errors.New("plan already exists")
	// ErrShareCodeTaken indicates another plan already holds the share code.
	ErrShareCodeTaken = errors.New("plan share code already taken")
)

// Repository provides access to persisted plans.
//
// ListByOwner returns plans ordered by start date descending, then created_at descending.
type Repository interface {
	Create(ctx context.Context, p domain.Plan) error
	Save(ctx context.Context, p domain.Plan) error
	Delete(ctx context.Context, id domain.PlanID) error

	GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error)
	GetByShareCode(ctx context.Context, code string) (domain.Plan, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Plan, error)
}
