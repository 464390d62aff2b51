package planrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/planrepo"
)

// Repo is an in-memory implementation of planrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID   map[domain.PlanID]domain.Plan
	byCode map[string]domain.PlanID
}

func NewRepo() *Repo {
	return &Repo{
		byID:   make(map[domain.PlanID]domain.Plan),
		byCode: make(map[string]domain.PlanID),
	}
}

func (r *Repo) Create(ctx context.Context, p domain.Plan) error {
	_ = ctx
	if p.ID == "" {
		return planrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return planrepo.ErrAlreadyExists
	}
	if err := r.checkCodeLocked(p); err != nil {
		return err
	}
	r.byID[p.ID] = clonePlan(p)
	r.indexCodeLocked(domain.Plan{}, p)
	return nil
}

func (r *Repo) Save(ctx context.Context, p domain.Plan) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[p.ID]
	if !ok {
		return planrepo.ErrNotFound
	}
	if err := r.checkCodeLocked(p); err != nil {
		return err
	}
	r.byID[p.ID] = clonePlan(p)
	r.indexCodeLocked(prev, p)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PlanID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return planrepo.ErrNotFound
	}
	if p.ShareCode != nil {
		delete(r.byCode, *p.ShareCode)
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PlanID) (domain.Plan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *Repo) GetByShareCode(ctx context.Context, code string) (domain.Plan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[code]
	if !ok {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	p, ok := r.byID[id]
	if !ok {
		return domain.Plan{}, planrepo.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Plan, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Plan, 0)
	for _, p := range r.byID {
		if p.OwnerID == owner {
			out = append(out, clonePlan(p))
		}
	}
	SortPlans(out)
	return out, nil
}

// SortPlans orders plans by start date descending, then created_at descending, then id.
func SortPlans(ps []domain.Plan) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].StartDate.Equal(ps[j].StartDate) {
			return ps[i].StartDate.After(ps[j].StartDate)
		}
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}

func (r *Repo) checkCodeLocked(p domain.Plan) error {
	if p.ShareCode == nil {
		return nil
	}
	if owner, ok := r.byCode[*p.ShareCode]; ok && owner != p.ID {
		return planrepo.ErrShareCodeTaken
	}
	return nil
}

func (r *Repo) indexCodeLocked(prev, next domain.Plan) {
	if prev.ShareCode != nil {
		delete(r.byCode, *prev.ShareCode)
	}
	if next.ShareCode != nil {
		r.byCode[*next.ShareCode] = next.ID
	}
}

func clonePlan(p domain.Plan) domain.Plan {
	out := p
	if p.DestinationCoord != nil {
		c := *p.DestinationCoord
		out.DestinationCoord = &c
	}
	if p.Budget != nil {
		b := *p.Budget
		out.Budget = &b
	}
	if p.ShareCode != nil {
		s := *p.ShareCode
		out.ShareCode = &s
	}
	return out
}
