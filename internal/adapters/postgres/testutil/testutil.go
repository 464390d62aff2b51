package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
)

// OpenMigratedPool connects to TEST_DATABASE_URL, applies the schema and empties every table.
// The test is skipped when TEST_DATABASE_URL is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE plan_shares, itinerary_items, plans, users, idempotency_keys`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

// SeedUser inserts a minimal user row and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, subject string) domain.UserID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	if _, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, subject, display_name, email, created_at, updated_at)
		VALUES ($1, $2, $2, '', $3, $3)
	`, id, subject, now); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return domain.UserID(id.String())
}

// SeedPlan inserts a minimal plan row owned by owner and returns its id.
func SeedPlan(t *testing.T, pool *pgxpool.Pool, owner domain.UserID) domain.PlanID {
	t.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	if _, err := pool.Exec(context.Background(), `
		INSERT INTO plans (id, owner_id, title, destination, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, 'Seed', 'Somewhere', $3, $3, $4, $4)
	`, id, uuid.MustParse(string(owner)), domain.DateOnly(now), now); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return domain.PlanID(id.String())
}
