package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/travel-planner-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// Records older than the retention window are not replayed and are dropped on the next Put.
// It is safe for concurrent use.
type Store struct {
	clk       clock.Clock
	retention time.Duration

	mu sync.RWMutex
	m  map[idempotency.Fingerprint]idempotency.Record
}

// NewStore returns a store; retention <= 0 keeps records forever.
func NewStore(clk clock.Clock, retention time.Duration) *Store {
	return &Store{
		clk:       clk,
		retention: retention,
		m:         make(map[idempotency.Fingerprint]idempotency.Record),
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.m[fp]
	if !ok || s.expired(rec, s.clk.Now()) {
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	now := s.clk.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.m {
		if s.expired(v, now) {
			delete(s.m, k)
		}
	}
	s.m[fp] = cloneRecord(rec)
	return nil
}

func (s *Store) expired(rec idempotency.Record, now time.Time) bool {
	return s.retention > 0 && now.Sub(rec.CreatedAt) >= s.retention
}

func cloneRecord(rec idempotency.Record) idempotency.Record {
	out := rec
	out.Body = append([]byte(nil), rec.Body...)
	return out
}
