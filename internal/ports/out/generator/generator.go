package generator

import (
	"context"
	"errors"
)

// ErrUnavailable wraps transport-level failures (network, quota, timeout, safety block).
var ErrUnavailable = errors.New("text generator unavailable")

// Generator produces free text for a prompt using an external model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
