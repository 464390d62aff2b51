package txn

import "context"

// Runner executes fn as one unit of work. Repositories called with the ctx passed to fn
// participate in the same transaction; a non-nil error from fn rolls everything back.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
