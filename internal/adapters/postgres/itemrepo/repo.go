package itemrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
)

const selectItem = `
	SELECT id, plan_id, day, time_of_day, activity, location, lat, lng, cost, notes, created_at, updated_at
	FROM itinerary_items
`

// Repo is a Postgres implementation of itemrepo.Repository.
type Repo struct {
	db postgres.DB
}

func NewRepo(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, it domain.ItineraryItem) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := postgres.ParseID("item", it.ID)
	if err != nil {
		return err
	}
	planID, err := postgres.ParseID("plan", it.PlanID)
	if err != nil {
		return err
	}
	lat, lng := coordColumns(it.Coord)
	_, err = postgres.Conn(ctx, r.db).Exec(ctx, `
		INSERT INTO itinerary_items (
			id, plan_id, day, time_of_day, activity, location, lat, lng, cost, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		id, planID, it.Day, it.Time, it.Activity, it.Location, lat, lng, it.Cost, it.Notes,
		it.CreatedAt.UTC(), it.UpdatedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "itinerary_items_pkey") {
			return itemrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, it domain.ItineraryItem) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	id, err := uuid.Parse(string(it.ID))
	if err != nil {
		return itemrepo.ErrNotFound
	}
	lat, lng := coordColumns(it.Coord)
	ct, err := postgres.Conn(ctx, r.db).Exec(ctx, `
		UPDATE itinerary_items
		SET day = $2,
		    time_of_day = $3,
		    activity = $4,
		    location = $5,
		    lat = $6,
		    lng = $7,
		    cost = $8,
		    notes = $9,
		    updated_at = $10
		WHERE id = $1
	`, id, it.Day, it.Time, it.Activity, it.Location, lat, lng, it.Cost, it.Notes, it.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return itemrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ItemID) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	iid, err := uuid.Parse(string(id))
	if err != nil {
		return itemrepo.ErrNotFound
	}
	ct, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM itinerary_items WHERE id = $1`, iid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return itemrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteByPlan(ctx context.Context, planID domain.PlanID) error {
	if r.db == nil {
		return postgres.ErrNilDB
	}
	pid, err := uuid.Parse(string(planID))
	if err != nil {
		return nil
	}
	_, err = postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM itinerary_items WHERE plan_id = $1`, pid)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItemID) (domain.ItineraryItem, error) {
	if r.db == nil {
		return domain.ItineraryItem{}, postgres.ErrNilDB
	}
	iid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.ItineraryItem{}, itemrepo.ErrNotFound
	}
	return scanItem(postgres.Conn(ctx, r.db).QueryRow(ctx, selectItem+` WHERE id = $1`, iid))
}

func (r *Repo) ListByPlan(ctx context.Context, planID domain.PlanID) ([]domain.ItineraryItem, error) {
	if r.db == nil {
		return nil, postgres.ErrNilDB
	}
	pid, err := uuid.Parse(string(planID))
	if err != nil {
		return []domain.ItineraryItem{}, nil
	}
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, selectItem+`
		WHERE plan_id = $1
		ORDER BY created_at ASC, seq ASC
	`, pid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ItineraryItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func coordColumns(c *domain.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lng := c.Lat, c.Lng
	return &lat, &lng
}

func scanItem(row pgx.Row) (domain.ItineraryItem, error) {
	var (
		id        uuid.UUID
		planID    uuid.UUID
		day       int
		timeOfDay *string
		activity  string
		location  *string
		lat, lng  *float64
		cost      float64
		notes     string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &planID, &day, &timeOfDay, &activity, &location, &lat, &lng, &cost, &notes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, itemrepo.ErrNotFound
		}
		return domain.ItineraryItem{}, err
	}
	return domain.ItineraryItem{
		ID:        domain.ItemID(id.String()),
		PlanID:    domain.PlanID(planID.String()),
		Day:       day,
		Time:      timeOfDay,
		Activity:  activity,
		Location:  location,
		Coord:     domain.CoordinateFromPtrs(lat, lng),
		Cost:      cost,
		Notes:     notes,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
