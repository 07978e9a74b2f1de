// Package service implements one typed operation per backend endpoint. Each
// operation enforces its preconditions, issues a single upstream call and
// translates any failure into an *apierror.Error.
package service

import (
	"context"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/client"
)

// Upstream sends one request to a backend and decodes the 2xx body into out.
type Upstream interface {
	Do(ctx context.Context, req *client.Request, out any) (int, error)
}

// caller binds an Upstream to one backend.
type caller struct {
	up      Upstream
	backend string
}

// call sends req and translates a failure with defaultMessage.
func (c caller) call(ctx context.Context, req *client.Request, out any, defaultMessage string) error {
	req.Backend = c.backend
	if _, err := c.up.Do(ctx, req, out); err != nil {
		return apierror.FromError(err, defaultMessage)
	}
	return nil
}

// fetch is call for operations that decode into a fresh T.
func fetch[T any](ctx context.Context, c caller, req *client.Request, defaultMessage string) (T, error) {
	var out T
	if err := c.call(ctx, req, &out, defaultMessage); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
