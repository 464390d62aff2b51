package itemrepo

import (
	"testing"

	"github.com/Overland-East-Bay/travel-planner-api/internal/adapters/contracttest"
	itemrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
)

func TestContract_ItemRepo(t *testing.T) {
	contracttest.RunItemRepo(t, func(t *testing.T) (itemrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	}, "plan-1", "plan-2")
}
