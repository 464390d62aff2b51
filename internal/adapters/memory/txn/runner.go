package txn

import (
	"context"
	"sync"
)

type inTxKey struct{}

// Runner serializes units of work against the in-memory repositories.
//
// The memory repositories have no rollback, so callers must finish validation before the
// first write (the application services do). Nested InTx calls reuse the outer unit.
type Runner struct {
	mu sync.Mutex
}

func NewRunner() *Runner { return &Runner{} }

func (r *Runner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(context.WithValue(ctx, inTxKey{}, true))
}
