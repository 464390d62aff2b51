package itemrepo

import (
	"testing"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/testutil"
	itemrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
)

func TestContract_PostgresItemRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	owner := testutil.SeedUser(t, pool, "sub-owner")
	planA := testutil.SeedPlan(t, pool, owner)
	planB := testutil.SeedPlan(t, pool, owner)

	contracttest.RunItemRepo(t, func(t *testing.T) (itemrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	}, planA, planB)
}
