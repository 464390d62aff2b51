package planrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
)

const selectPlan = `
	SELECT id, owner_id, title, destination, dest_lat, dest_lng, start_date, end_date,
	       budget, interests, visibility, share_code, created_at, updated_at
	FROM plans
`

// Repo is a Postgres implementation of planrepo.Repository.
type Repo struct {
	db postgres.DB
}

func NewRepo(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := postgres.ParseID("plan", p.ID)
	if err != nil {
		return err
	}
	owner, err := postgres.ParseID("user", p.OwnerID)
	if err != nil {
		return err
	}
	lat, lng := coordColumns(p.DestinationCoord)
	_, err = postgres.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO plans (
			id, owner_id, title, destination, dest_lat, dest_lng, start_date, end_date,
			budget, interests, visibility, share_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		id, owner, p.Title, p.Destination, lat, lng,
		domain.DateOnly(p.StartDate), domain.DateOnly(p.EndDate),
		p.Budget, p.Interests, string(p.Visibility), p.ShareCode,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Plan) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := postgres.ParseID("plan", p.ID)
	if err != nil {
		return planrepo.ErrNotFound
	}
	lat, lng := coordColumns(p.DestinationCoord)
	ct, err := postgres.Conn(ctx, r.db).Exec(ctx, `
		UPDATE plans
		SET title = $2,
		    destination = $3,
		    dest_lat = $4,
		    dest_lng = $5,
		    start_date = $6,
		    end_date = $7,
		    budget = $8,
		    interests = $9,
		    visibility = $10,
		    share_code = $11,
		    updated_at = $12
		WHERE id = $1
	`,
		id, p.Title, p.Destination, lat, lng,
		domain.DateOnly(p.StartDate), domain.DateOnly(p.EndDate),
		p.Budget, p.Interests, string(p.Visibility), p.ShareCode,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	if ct.RowsAffected() == 0 {
		return planrepo.ErrNotFound
	}
	return nil
}

// Delete removes the plan; items and shares go with it through ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id domain.PlanID) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	pid, err := uuid.Parse(string(id))
	if err != nil {
		return planrepo.ErrNotFound
	}
	ct, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM plans WHERE id = $1`, pid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return planrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	if r.db == nil {
		return domain.Plan{}, postgres.ErrNilDB
	}
	pid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	return scanPlan(postgres.Conn(ctx, r.db).QueryRow(ctx, selectPlan+` WHERE id = $1`, pid))
}

func (r *Repo) GetByShareCode(ctx context.Context, code string) (domain.Plan, error) {
	if r.db == nil {
		return domain.Plan{}, postgres.ErrNilDB
	}
	return scanPlan(postgres.Conn(ctx, r.db).QueryRow(ctx, selectPlan+` WHERE share_code = $1`, code))
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Plan, error) {
	if r.db == nil {
		return nil, postgres.ErrNilDB
	}
	oid, err := uuid.Parse(string(owner))
	if err != nil {
		return []domain.Plan{}, nil
	}
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, selectPlan+`
		WHERE owner_id = $1
		ORDER BY start_date DESC, created_at DESC, id ASC
	`, oid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func mapWriteError(err error) error {
	switch {
	case postgres.IsUniqueViolation(err, "plans_pkey"):
		return planrepo.ErrAlreadyExists
	case postgres.IsUniqueViolation(err, "plans_share_code_unique"):
		return planrepo.ErrShareCodeTaken
	default:
		return err
	}
}

func coordColumns(c *domain.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Lat, c.Lng
	return &lat, &lng
}

func scanPlan(row pgx.Row) (domain.Plan, error) {
	var (
		id          uuid.UUID
		owner       uuid.UUID
		title       string
		destination string
		lat, lng    *float64
		start, end  time.Time
		budget      *float64
		interests   string
		visibility  string
		shareCode   *string
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(
		&id, &owner, &title, &destination, &lat, &lng, &start, &end,
		&budget, &interests, &visibility, &shareCode, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, planrepo.ErrNotFound
		}
		return domain.Plan{}, err
	}
	return domain.Plan{
		ID:               domain.PlanID(id.String()),
		OwnerID:          domain.UserID(owner.String()),
		Title:            title,
		Destination:      destination,
		DestinationCoord: domain.CoordinateFromPtrs(lat, lng),
		StartDate:        domain.DateOnly(start),
		EndDate:          domain.DateOnly(end),
		Budget:           budget,
		Interests:        interests,
		Visibility:       domain.Visibility(visibility),
		ShareCode:        shareCode,
		CreatedAt:        createdAt.UTC(),
		UpdatedAt:        updatedAt.UTC(),
	}, nil
}
