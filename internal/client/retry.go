package client

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"chat-gateway-go/internal/config"
)

// withRetry runs op once, or, when retries are enabled and the call is a GET,
// retries it with exponential backoff for as long as it fails without ever
// reaching the backend. Status, timeout and decode failures are final.
func withRetry(ctx context.Context, cfg config.RetryConfig, method string, op func() (int, error)) (int, error) {
	if cfg.MaxRetries <= 0 || method != http.MethodGet {
		return op()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Duration(cfg.InitialIntervalMS) * time.Millisecond
	b.MaxInterval = time.Duration(cfg.MaxIntervalMS) * time.Millisecond
	b.MaxElapsedTime = 0

	var (
		status  int
		lastErr error
	)
	err := backoff.Retry(func() error {
		status, lastErr = op()
		if lastErr == nil {
			return nil
		}
		if retryable(ctx, lastErr) {
			return lastErr
		}
		return backoff.Permanent(lastErr)
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxRetries)), ctx))
	if err != nil {
		// backoff reports ctx.Err() when the context ends between attempts;
		// the caller wants the upstream failure itself.
		return status, lastErr
	}
	return status, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	f, ok := AsFailure(err)
	if !ok || f.Kind != KindNetwork {
		return false
	}
	return !isBreakerRejection(f.Err)
}
