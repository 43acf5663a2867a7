package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

// step is one attempt in a provider chain.
type step[T any] struct {
	provider provider.ID
	run      func(ctx context.Context) (T, error)
}

// firstSuccess runs steps in order and returns the first value produced
// without error. On exhaustion it returns every step's error, joined.
func firstSuccess[T any](ctx context.Context, steps []step[T]) (T, provider.ID, error) {
	var zero T
	var errs []error

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		v, err := s.run(ctx)
		if err == nil {
			return v, s.provider, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.provider, err))
	}

	if len(errs) == 0 {
		return zero, "", errNoProviders
	}
	return zero, "", errors.Join(errs...)
}

var (
	errNoProviders      = errors.New("no providers configured")
	errProviderNotFound = errors.New("provider not registered")
)
