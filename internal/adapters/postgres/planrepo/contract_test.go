package planrepo

import (
	"testing"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/postgres/testutil"
	planrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
)

func TestContract_PostgresPlanRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	owner := testutil.SeedUser(t, pool, "sub-owner")

	contracttest.RunPlanRepo(t, func(t *testing.T) (planrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	}, owner)
}
