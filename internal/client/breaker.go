package client

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/metrics"
)

// newBreaker returns a per-backend circuit breaker. Only network and timeout
// failures and 5xx answers count against it; a 4xx is the backend working.
func newBreaker(name string, cfg config.BreakerConfig, logger *slog.Logger, m *metrics.Metrics) *gobreaker.TwoStepCircuitBreaker[struct{}] {
	threshold := uint32(cfg.ConsecutiveFailures) //nolint:gosec // validated positive at load
	if m != nil {
		m.BreakerState.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))
	}

	return gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(cfg.HalfOpenRequests), //nolint:gosec // validated positive at load
		Timeout:     time.Duration(cfg.OpenSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"backend", name,
				"from", from.String(),
				"to", to.String(),
			)
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(stateValue(to))
			}
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
