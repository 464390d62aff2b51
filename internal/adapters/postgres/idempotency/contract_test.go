package idempotency

import (
	"testing"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/testutil"
	idempotencyport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/idempotency"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(pool, 0), nil
	})
}
