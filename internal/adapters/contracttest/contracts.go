package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/idempotency"
	itemrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
	planrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
	sharerepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
	userrepoport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type PlanRepoFactory func(t *testing.T) (planrepoport.Repository, CleanupFunc)
type ItemRepoFactory func(t *testing.T) (itemrepoport.Repository, CleanupFunc)
type ShareRepoFactory func(t *testing.T) (sharerepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/plans/{planId}/items",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"id":"a"}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"id":"a"}` || got.ContentType != "application/json" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// A different subject never sees another caller's record.
	other := fp
	other.Subject = "sub-2"
	if _, ok, _ := store.Get(ctx, other); ok {
		t.Fatalf("expected miss for other subject")
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"id":"b"}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"id":"b"}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	sub := domain.SubjectID("sub-a")
	if err := repo.Create(ctx, domain.User{
		ID:          aID,
		Subject:     sub,
		DisplayName: "Alice Johnson",
		Email:       "Alice@Example.com",
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetBySubject(ctx, sub); err != nil {
		t.Fatalf("GetBySubject: %v", err)
	}
	got, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != aID {
		t.Fatalf("GetByEmail case-insensitive: id=%q err=%v", got.ID, err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByEmail unknown err=%v, want ErrNotFound", err)
	}

	// Subject uniqueness.
	if err := repo.Create(ctx, domain.User{
		ID:          domain.UserID(uuid.NewString()),
		Subject:     sub,
		DisplayName: "Alice 2",
		Email:       "alice2@example.com",
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err == nil {
		t.Fatalf("expected subject uniqueness error")
	}

	// Home location round-trips.
	got.Home = &domain.HomeLocation{Address: "Jakarta", Coord: domain.Coordinate{Lat: -6.2, Lng: 106.8}}
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, aID)
	if err != nil || got.Home == nil || got.Home.Coord.Lat != -6.2 || got.Home.Address != "Jakarta" {
		t.Fatalf("home not persisted: %+v err=%v", got.Home, err)
	}
	if err := repo.Update(ctx, domain.User{ID: domain.UserID(uuid.NewString()), Subject: "sub-x"}); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("Update unknown err=%v, want ErrNotFound", err)
	}
}

func seedPlan(t *testing.T, ctx context.Context, plans planrepoport.Repository, owner domain.UserID, start time.Time, created time.Time) domain.Plan {
	t.Helper()
	budget := 500.0
	p := domain.Plan{
		ID:               domain.PlanID(uuid.NewString()),
		OwnerID:          owner,
		Title:            "Trip",
		Destination:      "Tokyo, Japan",
		DestinationCoord: &domain.Coordinate{Lat: 35.68, Lng: 139.69},
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 4),
		Budget:           &budget,
		Interests:        "food, temples",
		Visibility:       domain.VisibilityPrivate,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	if err := plans.Create(ctx, p); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return p
}

func RunPlanRepo(t *testing.T, newRepo PlanRepoFactory, owner domain.UserID) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	early := seedPlan(t, ctx, repo, owner, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), now)
	late := seedPlan(t, ctx, repo, owner, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), now)

	if err := repo.Create(ctx, early); !errors.Is(err, planrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, early.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Trip" || got.Budget == nil || *got.Budget != 500 || got.DestinationCoord == nil {
		t.Fatalf("unexpected plan: %+v", got)
	}

	list, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 || list[0].ID != late.ID {
		t.Fatalf("expected newest start first, got %#v", list)
	}

	code := "code-" + uuid.NewString()
	got.Visibility = domain.VisibilityPublic
	got.ShareCode = &code
	got.Budget = nil
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	byCode, err := repo.GetByShareCode(ctx, code)
	if err != nil || byCode.ID != early.ID || byCode.Budget != nil || !byCode.IsPublic() {
		t.Fatalf("GetByShareCode=%+v err=%v", byCode, err)
	}

	late.ShareCode = &code
	if err := repo.Save(ctx, late); !errors.Is(err, planrepoport.ErrShareCodeTaken) {
		t.Fatalf("Save with taken code err=%v, want ErrShareCodeTaken", err)
	}

	if err := repo.Delete(ctx, early.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, early.ID); !errors.Is(err, planrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v", err)
	}
	if _, err := repo.GetByShareCode(ctx, code); !errors.Is(err, planrepoport.ErrNotFound) {
		t.Fatalf("GetByShareCode after delete err=%v", err)
	}
	if err := repo.Delete(ctx, early.ID); !errors.Is(err, planrepoport.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}
}

func RunItemRepo(t *testing.T, newRepo ItemRepoFactory, planID, otherPlanID domain.PlanID) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	tm := "09:00"
	first := domain.ItineraryItem{
		ID: domain.ItemID(uuid.NewString()), PlanID: planID, Day: 1, Time: &tm,
		Activity: "Museum visit", Cost: 20, CreatedAt: now, UpdatedAt: now,
	}
	second := domain.ItineraryItem{
		ID: domain.ItemID(uuid.NewString()), PlanID: planID, Day: 1,
		Activity: "Dinner", Cost: 40, CreatedAt: now.Add(time.Second), UpdatedAt: now,
	}
	other := domain.ItineraryItem{
		ID: domain.ItemID(uuid.NewString()), PlanID: otherPlanID, Day: 2,
		Activity: "Hike", CreatedAt: now, UpdatedAt: now,
	}
	for _, it := range []domain.ItineraryItem{first, second, other} {
		if err := repo.Create(ctx, it); err != nil {
			t.Fatalf("Create %s: %v", it.Activity, err)
		}
	}
	if err := repo.Create(ctx, first); !errors.Is(err, itemrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate err=%v", err)
	}

	list, err := repo.ListByPlan(ctx, planID)
	if err != nil {
		t.Fatalf("ListByPlan: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected creation order, got %#v", list)
	}

	second.Day = 3
	second.Time = &tm
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByID(ctx, second.ID)
	if err != nil || got.Day != 3 || got.Time == nil || *got.Time != "09:00" {
		t.Fatalf("GetByID after Save=%+v err=%v", got, err)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, itemrepoport.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}

	if err := repo.DeleteByPlan(ctx, planID); err != nil {
		t.Fatalf("DeleteByPlan: %v", err)
	}
	if list, _ := repo.ListByPlan(ctx, planID); len(list) != 0 {
		t.Fatalf("expected no items after DeleteByPlan, got %d", len(list))
	}
	if list, _ := repo.ListByPlan(ctx, otherPlanID); len(list) != 1 {
		t.Fatalf("DeleteByPlan touched another plan: %d items", len(list))
	}
}

func RunShareRepo(t *testing.T, newRepo ShareRepoFactory, planID domain.PlanID, inviter, invitee, otherInvitee domain.UserID) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(4000, 0).UTC()
	s := domain.Share{
		ID: domain.ShareID(uuid.NewString()), PlanID: planID, InviterID: inviter, InviteeID: invitee,
		InviteeEmail: "bob@example.com", CanEdit: false, Status: domain.ShareStatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := s
	dup.ID = domain.ShareID(uuid.NewString())
	if err := repo.Create(ctx, dup); !errors.Is(err, sharerepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate pair err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByPlanAndInvitee(ctx, planID, invitee)
	if err != nil || got.ID != s.ID {
		t.Fatalf("GetByPlanAndInvitee=%+v err=%v", got, err)
	}
	if _, err := repo.GetByPlanAndInvitee(ctx, planID, otherInvitee); !errors.Is(err, sharerepoport.ErrNotFound) {
		t.Fatalf("GetByPlanAndInvitee unknown err=%v", err)
	}

	got.Status = domain.ShareStatusAccepted
	got.CanEdit = true
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, s.ID)
	if err != nil || got.Status != domain.ShareStatusAccepted || !got.CanEdit {
		t.Fatalf("GetByID after Save=%+v err=%v", got, err)
	}

	second := domain.Share{
		ID: domain.ShareID(uuid.NewString()), PlanID: planID, InviterID: inviter, InviteeID: otherInvitee,
		InviteeEmail: "carol@example.com", Status: domain.ShareStatusPending,
		CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second),
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	byPlan, err := repo.ListByPlan(ctx, planID)
	if err != nil || len(byPlan) != 2 || byPlan[0].ID != s.ID {
		t.Fatalf("ListByPlan=%#v err=%v", byPlan, err)
	}
	byInvitee, err := repo.ListByInvitee(ctx, otherInvitee)
	if err != nil || len(byInvitee) != 1 || byInvitee[0].ID != second.ID {
		t.Fatalf("ListByInvitee=%#v err=%v", byInvitee, err)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, s.ID); !errors.Is(err, sharerepoport.ErrNotFound) {
		t.Fatalf("second Delete err=%v", err)
	}
	// The pair is free again after a revoke.
	if err := repo.Create(ctx, dup); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}

	if err := repo.DeleteByPlan(ctx, planID); err != nil {
		t.Fatalf("DeleteByPlan: %v", err)
	}
	if byPlan, _ := repo.ListByPlan(ctx, planID); len(byPlan) != 0 {
		t.Fatalf("expected no shares after DeleteByPlan, got %d", len(byPlan))
	}
}
