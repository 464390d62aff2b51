package sharerepo

import (
	"testing"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/testutil"
	sharerepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
)

func TestContract_PostgresShareRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	owner := testutil.SeedUser(t, pool, "sub-owner")
	bob := testutil.SeedUser(t, pool, "sub-bob")
	carol := testutil.SeedUser(t, pool, "sub-carol")
	plan := testutil.SeedPlan(t, pool, owner)

	contracttest.RunShareRepo(t, func(t *testing.T) (sharerepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	}, plan, owner, bob, carol)
}
