package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

const selectUser = `
	SELECT id, subject, display_name, email, home_address, home_lat, home_lng, created_at, updated_at
	FROM users
`

// Repo is a Postgres implementation of userrepo.Repository.
type Repo struct {
	db postgres.DB
}

func NewRepo(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := postgres.ParseID("user", u.ID)
	if err != nil {
		return err
	}
	addr, lat, lng := homeColumns(u.Home)
	_, err = postgres.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO users (id, subject, display_name, email, home_address, home_lat, home_lng, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, string(u.Subject), u.DisplayName, u.Email, addr, lat, lng, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := postgres.ParseID("user", u.ID)
	if err != nil {
		return userrepo.ErrNotFound
	}
	q := postgres.Conn(ctx, r.db)

	existing, err := scanUser(q.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil {
		return err
	}
	if existing.Subject != u.Subject {
		return userrepo.ErrSubjectAlreadyBound
	}

	addr, lat, lng := homeColumns(u.Home)
	ct, err := q.Exec(ctx, `
		UPDATE users
		SET display_name = $2,
		    email = $3,
		    home_address = $4,
		    home_lat = $5,
		    home_lng = $6,
		    updated_at = $7
		WHERE id = $1
	`, id, u.DisplayName, u.Email, addr, lat, lng, u.UpdatedAt.UTC())
	if err != nil {
		return mapWriteError(err)
	}
	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	if r.db == nil {
		return domain.User{}, postgres.ErrNilDB
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.User{}, userrepo.ErrNotFound
	}
	return scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, selectUser+` WHERE id = $1`, uid))
}

func (r *Repo) GetBySubject(ctx context.Context, subject domain.SubjectID) (domain.User, error) {
	if r.db == nil {
		return domain.User{}, postgres.ErrNilDB
	}
	return scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, selectUser+` WHERE subject = $1`, string(subject)))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if r.db == nil {
		return domain.User{}, postgres.ErrNilDB
	}
	return scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, selectUser+` WHERE email <> '' AND lower(email) = lower(trim($1))`, email))
}

func mapWriteError(err error) error {
	pe, ok := postgres.AsPgError(err)
	if !ok || pe.Code != postgres.UniqueViolationCode {
		return err
	}
	switch pe.ConstraintName {
	case "users_pkey":
		return userrepo.ErrAlreadyExists
	case "users_subject_unique":
		return userrepo.ErrSubjectAlreadyBound
	case "users_email_lower_unique":
		return userrepo.ErrEmailTaken
	default:
		return err
	}
}

func homeColumns(h *domain.HomeLocation) (*string, *float64, *float64) {
	if h == nil {
		return nil, nil, nil
	}
	addr, lat, lng := h.Address, h.Coord.Lat, h.Coord.Lng
	return &addr, &lat, &lng
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		id          uuid.UUID
		subject     string
		displayName string
		email       string
		homeAddress *string
		homeLat     *float64
		homeLng     *float64
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &subject, &displayName, &email, &homeAddress, &homeLat, &homeLng, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, err
	}
	u := domain.User{
		ID:          domain.UserID(id.String()),
		Subject:     domain.SubjectID(subject),
		DisplayName: displayName,
		Email:       email,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}
	if homeLat != nil && homeLng != nil {
		u.Home = &domain.HomeLocation{Coord: domain.Coordinate{Lat: *homeLat, Lng: *homeLng}}
		if homeAddress != nil {
			u.Home.Address = *homeAddress
		}
	}
	return u, nil
}
