package sharerepo

import (
	"testing"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	sharerepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
)

func TestContract_ShareRepo(t *testing.T) {
	contracttest.RunShareRepo(t, func(t *testing.T) (sharerepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	}, "plan-1", "owner", "bob", "carol")
}
