package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/client"
)

// fakeUpstream records every request and answers through respond.
type fakeUpstream struct {
	mu      sync.Mutex
	reqs    []*client.Request
	respond func(req *client.Request) (int, string, error)
}

func (f *fakeUpstream) Do(_ context.Context, req *client.Request, out any) (int, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return http.StatusOK, nil
	}
	status, body, err := respond(req)
	if err != nil {
		return status, err
	}
	if out != nil && body != "" {
		if err := json.Unmarshal([]byte(body), out); err != nil {
			return status, &client.Failure{Kind: client.KindDecode, Backend: req.Backend, StatusCode: status, Err: err}
		}
	}
	return status, nil
}

func (f *fakeUpstream) requests() []*client.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*client.Request(nil), f.reqs...)
}

func reply(body string) func(*client.Request) (int, string, error) {
	return func(*client.Request) (int, string, error) { return http.StatusOK, body, nil }
}

func statusReply(code int, body string) func(*client.Request) (int, string, error) {
	return func(req *client.Request) (int, string, error) {
		return code, "", &client.Failure{Kind: client.KindStatus, Backend: req.Backend, StatusCode: code, Body: []byte(body)}
	}
}

func networkReply() func(*client.Request) (int, string, error) {
	return func(req *client.Request) (int, string, error) {
		return 0, "", &client.Failure{Kind: client.KindNetwork, Backend: req.Backend, Err: errors.New("connection refused")}
	}
}

// requireAPIError asserts err is an *apierror.Error with the given status.
func requireAPIError(t *testing.T, err error, status int) *apierror.Error {
	t.Helper()
	require.Error(t, err)
	var ae *apierror.Error
	require.True(t, errors.As(err, &ae), "error %v is not an *apierror.Error", err)
	assert.Equal(t, status, ae.Status)
	return ae
}
