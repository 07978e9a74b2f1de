// Package fanout runs the sub-calls of one composite operation concurrently.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateKey is returned when two calls share a key.
var ErrDuplicateKey = errors.New("fanout: duplicate call key")

// Call is one sub-call. Key identifies its target (backend plus request URI)
// and must be unique within a Run.
type Call[T any] struct {
	Key string
	Do  func(ctx context.Context) (T, error)
}

// Run issues every call concurrently and waits for all of them. Results are
// returned in call order. On failure the remaining calls are canceled and
// the error of the earliest failing call in call order is returned; a call
// that failed only because a sibling's failure canceled it does not count.
func Run[T any](ctx context.Context, calls []Call[T]) ([]T, error) {
	seen := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		if _, dup := seen[c.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, c.Key)
		}
		seen[c.Key] = struct{}{}
	}

	results := make([]T, len(calls))
	errs := make([]error, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range calls {
		g.Go(func() error {
			res, err := c.Do(gctx)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = res
			return nil
		})
	}
	if g.Wait() == nil {
		return results, nil
	}

	// A sibling-induced cancellation is only distinguishable while the parent
	// context is still alive; once the parent ends every error is genuine.
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if fallback == nil {
			fallback = err
		}
		if ctx.Err() == nil && errors.Is(err, context.Canceled) {
			continue
		}
		return nil, err
	}
	return nil, fallback
}
