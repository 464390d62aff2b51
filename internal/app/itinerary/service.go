package itinerary

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/travel-planner-api/internal/app/apperr"
	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	clockport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/txn"
)

// AccessResolver authorizes an actor on a plan. *sharing.Service implements it.
type AccessResolver interface {
	Authorize(ctx context.Context, planID domain.PlanID, actor domain.UserID, min domain.Access) (domain.Plan, domain.Access, error)
}

type Service struct {
	access AccessResolver
	items  itemrepo.Repository
	tx     txn.Runner
	clk    clockport.Clock

	newItemID func() domain.ItemID
}

func NewService(access AccessResolver, items itemrepo.Repository, tx txn.Runner, clk clockport.Clock) *Service {
	return &Service{
		access: access,
		items:  items,
		tx:     tx,
		clk:    clk,
		newItemID: func() domain.ItemID {
			return domain.ItemID(uuid.NewString())
		},
	}
}

// SetNewItemIDForTest overrides item ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewItemIDForTest(fn func() domain.ItemID) {
	if fn != nil {
		s.newItemID = fn
	}
}

func itemNotFound() *apperr.Error {
	return apperr.New(apperr.NotFound, "itinerary item not found").WithCode("ITEM_NOT_FOUND")
}

// AddItem validates and stores a new item on a plan the actor can edit.
func (s *Service) AddItem(ctx context.Context, actor domain.UserID, planID domain.PlanID, in NewItem) (ItemResult, error) {
	var res ItemResult
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, _, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewAndEdit)
		if err != nil {
			return err
		}
		it, err := s.buildItem(planID, in)
		if err != nil {
			return err
		}
		if err := s.items.Create(ctx, it); err != nil {
			return err
		}
		views, err := s.views(ctx, p)
		if err != nil {
			return err
		}
		res = ItemResult{Item: it, Views: views}
		return nil
	})
	if err != nil {
		return ItemResult{}, err
	}
	return res, nil
}

func (s *Service) buildItem(planID domain.PlanID, in NewItem) (domain.ItineraryItem, error) {
	if in.Day < 1 {
		return domain.ItineraryItem{}, apperr.Validation("day", "must be at least 1")
	}
	activity := domain.NormalizeHumanName(in.Activity)
	if activity == "" {
		return domain.ItineraryItem{}, apperr.Validation("activity", "is required")
	}
	cost := 0.0
	if in.Cost != nil {
		cost = *in.Cost
		if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
			return domain.ItineraryItem{}, apperr.Validation("cost", "must be a non-negative number")
		}
	}
	t, err := normalizeTime(in.Time)
	if err != nil {
		return domain.ItineraryItem{}, err
	}
	if in.Coord != nil && !in.Coord.Valid() {
		return domain.ItineraryItem{}, apperr.Validation("coordinate", "latitude must be within [-90, 90] and longitude within [-180, 180]")
	}

	var loc *string
	if in.Location != nil {
		if l := strings.TrimSpace(*in.Location); l != "" {
			loc = &l
		}
	}
	var coord *domain.Coordinate
	if in.Coord != nil {
		c := *in.Coord
		coord = &c
	}

	now := s.clk.Now().UTC()
	return domain.ItineraryItem{
		ID:        s.newItemID(),
		PlanID:    planID,
		Day:       in.Day,
		Time:      t,
		Activity:  activity,
		Location:  loc,
		Coord:     coord,
		Cost:      cost,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// normalizeTime returns the canonical "15:04" form; nil or blank clears the time.
func normalizeTime(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := domain.ParseTimeOfDay(*raw)
	if err != nil {
		return nil, apperr.Validation("time", "must be a time of day like 14:30 or 2:30 PM")
	}
	return &t, nil
}

// UpdateSchedule moves an item to another day and time. A nil or blank time unschedules it
// within the day.
func (s *Service) UpdateSchedule(ctx context.Context, actor domain.UserID, planID domain.PlanID, itemID domain.ItemID, day int, timeOfDay *string) (ScheduleResult, error) {
	var res ScheduleResult
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, _, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewAndEdit)
		if err != nil {
			return err
		}
		it, err := s.loadOwnedItem(ctx, planID, itemID)
		if err != nil {
			return err
		}
		if day < 1 {
			return apperr.Validation("day", "must be at least 1")
		}
		t, err := normalizeTime(timeOfDay)
		if err != nil {
			return err
		}

		it.Day = day
		it.Time = t
		it.UpdatedAt = s.clk.Now().UTC()
		if err := s.items.Save(ctx, it); err != nil {
			if errors.Is(err, itemrepo.ErrNotFound) {
				return itemNotFound()
			}
			return err
		}
		views, err := s.views(ctx, p)
		if err != nil {
			return err
		}
		res = ScheduleResult{Item: it, Views: views}
		if t != nil {
			res.DisplayTime = domain.FormatTimeOfDay(*t)
		}
		return nil
	})
	if err != nil {
		return ScheduleResult{}, err
	}
	return res, nil
}

// DeleteItem removes an item and returns the recomputed itinerary.
func (s *Service) DeleteItem(ctx context.Context, actor domain.UserID, planID domain.PlanID, itemID domain.ItemID) (Views, error) {
	var out Views
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, _, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewAndEdit)
		if err != nil {
			return err
		}
		if _, err := s.loadOwnedItem(ctx, planID, itemID); err != nil {
			return err
		}
		if err := s.items.Delete(ctx, itemID); err != nil {
			if errors.Is(err, itemrepo.ErrNotFound) {
				return itemNotFound()
			}
			return err
		}
		out, err = s.views(ctx, p)
		return err
	})
	if err != nil {
		return Views{}, err
	}
	return out, nil
}

// GetItinerary returns the derived itinerary of a plan the actor can view.
func (s *Service) GetItinerary(ctx context.Context, actor domain.UserID, planID domain.PlanID) (Itinerary, error) {
	p, access, err := s.access.Authorize(ctx, planID, actor, domain.AccessViewOnly)
	if err != nil {
		return Itinerary{}, err
	}
	views, err := s.views(ctx, p)
	if err != nil {
		return Itinerary{}, err
	}
	return Itinerary{Plan: p, Access: access, Views: views}, nil
}

func (s *Service) loadOwnedItem(ctx context.Context, planID domain.PlanID, itemID domain.ItemID) (domain.ItineraryItem, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, itemrepo.ErrNotFound) {
			return domain.ItineraryItem{}, itemNotFound()
		}
		return domain.ItineraryItem{}, err
	}
	if it.PlanID != planID {
		return domain.ItineraryItem{}, apperr.New(apperr.OwnershipMismatch, "item does not belong to this plan")
	}
	return it, nil
}

func (s *Service) views(ctx context.Context, p domain.Plan) (Views, error) {
	items, err := s.items.ListByPlan(ctx, p.ID)
	if err != nil {
		return Views{}, err
	}
	return DeriveViews(p, items), nil
}
