package statistics

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	clockport "github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/userrepo"
)

// loadConcurrency bounds the number of item queries in flight per request.
const loadConcurrency = 8

// Service loads a user's trip history and aggregates it.
type Service struct {
	plans planrepo.Repository
	items itemrepo.Repository
	users userrepo.Repository
	clk   clockport.Clock
}

func NewService(plans planrepo.Repository, items itemrepo.Repository, users userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{plans: plans, items: items, users: users, clk: clk}
}

// ForUser computes statistics over the plans the user owns.
func (s *Service) ForUser(ctx context.Context, userID domain.UserID) (Statistics, error) {
	in, err := s.Load(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	return Aggregate(in), nil
}

// SuggestionsForUser returns rule-based suggestions from the user's statistics.
func (s *Service) SuggestionsForUser(ctx context.Context, userID domain.UserID) ([]Suggestion, error) {
	st, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Suggest(st), nil
}

// Load gathers the aggregation input. Items are fetched per plan concurrently.
func (s *Service) Load(ctx context.Context, userID domain.UserID) (Input, error) {
	in := Input{Now: s.clk.Now().UTC()}

	u, err := s.users.GetByID(ctx, userID)
	switch {
	case err == nil:
		if u.Home != nil {
			c := u.Home.Coord
			in.Home = &c
		}
	case errors.Is(err, userrepo.ErrNotFound):
	default:
		return Input{}, err
	}

	ps, err := s.plans.ListByOwner(ctx, userID)
	if err != nil {
		return Input{}, err
	}

	in.Plans = make([]PlanData, len(ps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, p := range ps {
		i, p := i, p
		g.Go(func() error {
			items, err := s.items.ListByPlan(gctx, p.ID)
			if err != nil {
				return err
			}
			in.Plans[i] = PlanData{Plan: p, Items: items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Input{}, err
	}
	return in, nil
}
