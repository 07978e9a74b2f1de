package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	"chat-gateway-go/internal/config"
)

var fastRetry = config.RetryConfig{MaxRetries: 3, InitialIntervalMS: 1, MaxIntervalMS: 2}

func TestWithRetry_RetriesNetworkFailures(t *testing.T) {
	calls := 0
	status, err := withRetry(context.Background(), fastRetry, http.MethodGet, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, &Failure{Kind: KindNetwork, Err: errors.New("connection refused")}
		}
		return http.StatusOK, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetry, http.MethodGet, func() (int, error) {
		calls++
		return 0, &Failure{Kind: KindNetwork, Err: errors.New("connection refused")}
	})
	f, ok := AsFailure(err)
	assert.True(t, ok)
	assert.Equal(t, KindNetwork, f.Kind)
	assert.Equal(t, 4, calls)
}

func TestWithRetry_OnlyGET(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetry, http.MethodPost, func() (int, error) {
		calls++
		return 0, &Failure{Kind: KindNetwork, Err: errors.New("reset")}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_FinalKinds(t *testing.T) {
	for _, f := range []*Failure{
		{Kind: KindTimeout, Err: context.DeadlineExceeded},
		{Kind: KindStatus, StatusCode: http.StatusBadGateway},
		{Kind: KindDecode, StatusCode: http.StatusOK, Err: errors.New("bad json")},
		{Kind: KindNetwork, Err: gobreaker.ErrOpenState},
	} {
		t.Run(f.Kind.String(), func(t *testing.T) {
			calls := 0
			_, err := withRetry(context.Background(), fastRetry, http.MethodGet, func() (int, error) {
				calls++
				return f.StatusCode, f
			})
			assert.Same(t, f, err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestWithRetry_Disabled(t *testing.T) {
	calls := 0
	_, _ = withRetry(context.Background(), config.RetryConfig{}, http.MethodGet, func() (int, error) {
		calls++
		return 0, &Failure{Kind: KindNetwork}
	})
	assert.Equal(t, 1, calls)
}
