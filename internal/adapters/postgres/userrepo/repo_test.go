package userrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

var userColumns = []string{"id", "subject", "display_name", "email", "home_address", "home_lat", "home_lng", "created_at", "updated_at"}

func ptr[T any](v T) *T { return &v }

func TestRepo_CreateMapsUniqueViolations(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Unix(100, 0).UTC()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(id, "sub-1", "Alice", "a@example.com", (*string)(nil), (*float64)(nil), (*float64)(nil), now, now).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_unique"})

	r := NewRepo(mock)
	err = r.Create(context.Background(), domain.User{
		ID: domain.UserID(id.String()), Subject: "sub-1", DisplayName: "Alice", Email: "a@example.com",
		CreatedAt: now, UpdatedAt: now,
	})
	if !errors.Is(err, userrepo.ErrEmailTaken) {
		t.Fatalf("Create() err=%v, want ErrEmailTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_GetBySubjectScansHome(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Unix(100, 0).UTC()
	mock.ExpectQuery(`SELECT id, subject, display_name, email, home_address, home_lat, home_lng`).
		WithArgs("sub-1").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(id, "sub-1", "Alice", "a@example.com", ptr("Jakarta"), ptr(-6.2), ptr(106.8), now, now))

	u, err := NewRepo(mock).GetBySubject(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("GetBySubject() err=%v", err)
	}
	if u.ID != domain.UserID(id.String()) || u.Home == nil || u.Home.Address != "Jakarta" || u.Home.Coord.Lng != 106.8 {
		t.Fatalf("GetBySubject()=%+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_GetByIDInvalidUUIDIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	if _, err := NewRepo(mock).GetByID(context.Background(), "nope"); !errors.Is(err, userrepo.ErrNotFound) {
		t.Fatalf("GetByID() err=%v, want ErrNotFound", err)
	}
}

func TestRepo_UpdateRejectsSubjectChange(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	now := time.Unix(100, 0).UTC()
	mock.ExpectQuery(`FROM users`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(id, "sub-1", "Alice", "", (*string)(nil), (*float64)(nil), (*float64)(nil), now, now))

	err = NewRepo(mock).Update(context.Background(), domain.User{ID: domain.UserID(id.String()), Subject: "sub-2"})
	if !errors.Is(err, userrepo.ErrSubjectAlreadyBound) {
		t.Fatalf("Update() err=%v, want ErrSubjectAlreadyBound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
