package itemrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
)

func TestRepo_CreatePassesNullableColumns(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	id, planID := uuid.New(), uuid.New()
	now := time.Unix(100, 0).UTC()
	mock.ExpectExec(`INSERT INTO itinerary_items`).
		WithArgs(id, planID, 2, (*string)(nil), "Dinner", (*string)(nil), (*float64)(nil), (*float64)(nil), 30.0, "", now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewRepo(mock).Create(context.Background(), domain.ItineraryItem{
		ID: domain.ItemID(id.String()), PlanID: domain.PlanID(planID.String()),
		Day: 2, Activity: "Dinner", Cost: 30, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRepo_DeleteTwiceIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM itinerary_items WHERE id`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM itinerary_items WHERE id`).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	r := NewRepo(mock)
	if err := r.Delete(context.Background(), domain.ItemID(id.String())); err != nil {
		t.Fatalf("first Delete() err=%v", err)
	}
	if err := r.Delete(context.Background(), domain.ItemID(id.String())); !errors.Is(err, itemrepo.ErrNotFound) {
		t.Fatalf("second Delete() err=%v, want ErrNotFound", err)
	}
}

func TestRepo_ListByPlanScansRows(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	planID := uuid.New()
	now := time.Unix(100, 0).UTC()
	tm := "09:30"
	lat, lng := 48.86, 2.29
	mock.ExpectQuery(`FROM itinerary_items\s+WHERE plan_id = \$1\s+ORDER BY created_at ASC, seq ASC`).
		WithArgs(planID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "plan_id", "day", "time_of_day", "activity", "location", "lat", "lng", "cost", "notes", "created_at", "updated_at"}).
			AddRow(uuid.New(), planID, 1, &tm, "Eiffel Tower", (*string)(nil), &lat, &lng, 25.0, "", now, now))

	got, err := NewRepo(mock).ListByPlan(context.Background(), domain.PlanID(planID.String()))
	if err != nil {
		t.Fatalf("ListByPlan() err=%v", err)
	}
	if len(got) != 1 || got[0].Time == nil || *got[0].Time != "09:30" || got[0].Coord == nil || got[0].Coord.Lat != 48.86 {
		t.Fatalf("ListByPlan()=%#v", got)
	}
}
