package sharerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/sharerepo"
)

type pairKey struct {
	plan    domain.PlanID
	invitee domain.UserID
}

// Repo is an in-memory implementation of sharerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID   map[domain.ShareID]domain.Share
	byPair map[pairKey]domain.ShareID
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.ShareID]domain.Share),
		byPair: make(map[pairKey]domain.ShareID),
	}
}

func (r *Repo) Create(ctx context.Context, s domain.Share) error {
	_ = ctx
	if s.ID == "" {
		return sharerepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; ok {
		return sharerepo.ErrAlreadyExists
	}
	k := pairKey{plan: s.PlanID, invitee: s.InviteeID}
	if _, ok := r.byPair[k]; ok {
		return sharerepo.ErrAlreadyExists
	}
	r.byID[s.ID] = s
	r.byPair[k] = s.ID
	return nil
}

func (r *Repo) Save(ctx context.Context, s domain.Share) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[s.ID]
	if !ok {
		return sharerepo.ErrNotFound
	}
	// The (plan, invitee) pair is the identity of a share and never changes.
	s.PlanID = prev.PlanID
	s.InviteeID = prev.InviteeID
	r.byID[s.ID] = s
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ShareID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return sharerepo.ErrNotFound
	}
	delete(r.byPair, pairKey{plan: s.PlanID, invitee: s.InviteeID})
	delete(r.byID, id)
	return nil
}

func (r *Repo) DeleteByPlan(ctx context.Context, planID domain.PlanID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.PlanID == planID {
			delete(r.byPair, pairKey{plan: s.PlanID, invitee: s.InviteeID})
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ShareID) (domain.Share, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	return s, nil
}

func (r *Repo) GetByPlanAndInvitee(ctx context.Context, planID domain.PlanID, invitee domain.UserID) (domain.Share, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPair[pairKey{plan: planID, invitee: invitee}]
	if !ok {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *Repo) ListByPlan(ctx context.Context, planID domain.PlanID) ([]domain.Share, error) {
	return r.list(ctx, func(s domain.Share) bool { return s.PlanID == planID })
}

func (r *Repo) ListByInvitee(ctx context.Context, invitee domain.UserID) ([]domain.Share, error) {
	return r.list(ctx, func(s domain.Share) bool { return s.InviteeID == invitee })
}

func (r *Repo) list(ctx context.Context, keep func(domain.Share) bool) ([]domain.Share, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Share, 0)
	for _, s := range r.byID {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
