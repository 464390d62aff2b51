package sharerepo

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

var (
	ErrNotFound = errors.New("share not found")
	// ErrAlreadyExists indicates a share already exists for the id or for the (plan, invitee) pair.
	ErrAlreadyExists = errors.New("share already exists")
)

// Repository provides access to persisted shares.
//
// At most one share exists per (plan, invitee). List methods return shares in creation order.
type Repository interface {
	Create(ctx context.Context, s domain.Share) error
	Save(ctx context.Context, s domain.Share) error
	Delete(ctx context.Context, id domain.ShareID) error
	DeleteByPlan(ctx context.Context, planID domain.PlanID) error

	GetByID(ctx context.Context, id domain.ShareID) (domain.Share, error)
	GetByPlanAndInvitee(ctx context.Context, planID domain.PlanID, invitee domain.UserID) (domain.Share, error)
	ListByPlan(ctx context.Context, planID domain.PlanID) ([]domain.Share, error)
	ListByInvitee(ctx context.Context, invitee domain.UserID) ([]domain.Share, error)
}
