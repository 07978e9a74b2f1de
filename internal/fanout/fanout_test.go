package fanout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return v, nil }
}

func failing(err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return "", err }
}

func TestRun_ResultsInCallOrder(t *testing.T) {
	slow := func(ctx context.Context) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "threads", nil
	}
	got, err := Run(context.Background(), []Call[string]{
		{Key: "search GET /?index=threads", Do: slow},
		{Key: "search GET /?index=files", Do: value("files")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"threads", "files"}, got)
}

func TestRun_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	call := func(ctx context.Context) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		inFlight.Add(-1)
		return "", nil
	}
	_, err := Run(context.Background(), []Call[string]{
		{Key: "a", Do: call}, {Key: "b", Do: call}, {Key: "c", Do: call},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), peak.Load())
}

func TestRun_FirstRequestedFailureWins(t *testing.T) {
	errThreads := errors.New("threads unavailable")
	_, err := Run(context.Background(), []Call[string]{
		{Key: "threads", Do: failing(errThreads)},
		{Key: "files", Do: value("files")},
	})
	assert.ErrorIs(t, err, errThreads)
}

func TestRun_SimultaneousFailuresReportEarliestCall(t *testing.T) {
	errThreads := errors.New("threads unavailable")
	errFiles := errors.New("files unavailable")
	start := make(chan struct{})
	wait := func(err error) func(context.Context) (string, error) {
		return func(context.Context) (string, error) {
			<-start
			return "", err
		}
	}
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(start)
	}()

	_, err := Run(context.Background(), []Call[string]{
		{Key: "threads", Do: wait(errThreads)},
		{Key: "files", Do: wait(errFiles)},
	})
	assert.ErrorIs(t, err, errThreads)
}

func TestRun_SiblingCancellationIsNotTheFailure(t *testing.T) {
	errFiles := errors.New("files unavailable")
	blocked := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	_, err := Run(context.Background(), []Call[string]{
		{Key: "threads", Do: blocked},
		{Key: "files", Do: failing(errFiles)},
	})
	assert.ErrorIs(t, err, errFiles)
}

func TestRun_CancelsSiblingsOnFailure(t *testing.T) {
	canceled := make(chan struct{})
	_, err := Run(context.Background(), []Call[string]{
		{Key: "threads", Do: failing(errors.New("boom"))},
		{Key: "files", Do: func(ctx context.Context) (string, error) {
			select {
			case <-ctx.Done():
				close(canceled)
				return "", ctx.Err()
			case <-time.After(5 * time.Second):
				return "late", nil
			}
		}},
	})
	require.Error(t, err)
	select {
	case <-canceled:
	default:
		t.Fatal("sibling call was not canceled")
	}
}

func TestRun_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	_, err := Run(ctx, []Call[string]{{Key: "a", Do: blocked}, {Key: "b", Do: blocked}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_DuplicateKeysRejected(t *testing.T) {
	var called atomic.Bool
	call := func(context.Context) (string, error) {
		called.Store(true)
		return "", nil
	}
	_, err := Run(context.Background(), []Call[string]{
		{Key: "search GET /?index=threads", Do: call},
		{Key: "search GET /?index=threads", Do: call},
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.False(t, called.Load())
}

func TestRun_Empty(t *testing.T) {
	got, err := Run[string](context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
