package userrepo

import (
	"context"
	"errors"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists indicates a user already exists with the provided ID.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrSubjectAlreadyBound indicates a user already exists for the provided subject.
	ErrSubjectAlreadyBound = errors.New("user subject already bound")

	// ErrEmailTaken indicates another user already uses the email (case-insensitive).
	ErrEmailTaken = errors.New("user email already taken")
)

// Repository provides access to persisted users.
//
// Email lookups are case-insensitive. The subject binding of a user is immutable.
type Repository interface {
	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error

	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}
