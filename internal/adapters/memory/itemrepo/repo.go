package itemrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/travel-planner-api/internal/domain"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/itemrepo"
)

// Repo is an in-memory implementation of itemrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.ItemID]domain.ItineraryItem
	// seq records insertion order so equal created_at values still list deterministically.
	seq  map[domain.ItemID]int64
	next int64
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ItemID]domain.ItineraryItem),
		seq:  make(map[domain.ItemID]int64),
	}
}

func (r *Repo) Create(ctx context.Context, it domain.ItineraryItem) error {
	_ = ctx
	if it.ID == "" {
		return itemrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[it.ID]; ok {
		return itemrepo.ErrAlreadyExists
	}
	r.byID[it.ID] = cloneItem(it)
	r.next++
	r.seq[it.ID] = r.next
	return nil
}

func (r *Repo) Save(ctx context.Context, it domain.ItineraryItem) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[it.ID]
	if !ok {
		return itemrepo.ErrNotFound
	}
	// Plan membership is immutable.
	it.PlanID = prev.PlanID
	r.byID[it.ID] = cloneItem(it)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ItemID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return itemrepo.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.seq, id)
	return nil
}

func (r *Repo) DeleteByPlan(ctx context.Context, planID domain.PlanID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, it := range r.byID {
		if it.PlanID == planID {
			delete(r.byID, id)
			delete(r.seq, id)
		}
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItemID) (domain.ItineraryItem, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.byID[id]
	if !ok {
		return domain.ItineraryItem{}, itemrepo.ErrNotFound
	}
	return cloneItem(it), nil
}

func (r *Repo) ListByPlan(ctx context.Context, planID domain.PlanID) ([]domain.ItineraryItem, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ItineraryItem, 0)
	for _, it := range r.byID {
		if it.PlanID == planID {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] < r.seq[out[j].ID]
	})
	return out, nil
}

func cloneItem(it domain.ItineraryItem) domain.ItineraryItem {
	out := it
	if it.Time != nil {
		v := *it.Time
		out.Time = &v
	}
	if it.Location != nil {
		v := *it.Location
		out.Location = &v
	}
	if it.Coord != nil {
		c := *it.Coord
		out.Coord = &c
	}
	return out
}
