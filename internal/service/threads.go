package service

import (
	"context"
	"net/http"
	"net/url"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// ThreadService talks to the threads backend. Paths are relative to the
// configured base URL.
type ThreadService struct {
	caller
}

// NewThreadService returns a ThreadService calling the threads backend through up.
func NewThreadService(up Upstream) *ThreadService {
	return &ThreadService{caller{up: up, backend: config.BackendThreads}}
}

// Create sends the identifying fields both as query parameters, which the
// backend routes on, and in the JSON body.
func (s *ThreadService) Create(ctx context.Context, in model.ThreadCreate) (model.Thread, error) {
	return fetch[model.Thread](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/threads/",
		Query: url.Values{
			"channel_id":  {in.ChannelID},
			"thread_name": {in.Title},
			"user_id":     {in.CreatedBy},
		},
		JSON: in,
	}, "error creating thread")
}

// List returns the threads of one channel, or every thread when channelID is nil.
func (s *ThreadService) List(ctx context.Context, channelID *string) ([]model.ThreadBasicInfo, error) {
	req := &client.Request{Method: http.MethodGet, Path: "/threads/"}
	if channelID != nil {
		req.Path = "/channel/get_threads"
		req.Query = url.Values{"channel_id": {*channelID}}
	}
	return fetch[[]model.ThreadBasicInfo](ctx, s.caller, req, "error listing threads")
}

func (s *ThreadService) Get(ctx context.Context, threadID string) (model.Thread, error) {
	return fetch[model.Thread](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/threads/%s", threadID),
	}, "error fetching thread")
}

func (s *ThreadService) Update(ctx context.Context, threadID string, in model.ThreadUpdate) (model.Thread, error) {
	return fetch[model.Thread](ctx, s.caller, &client.Request{
		Method: http.MethodPatch,
		Path:   backend.Pathf("/threads/%s", threadID),
		JSON:   in,
	}, "error updating thread")
}

func (s *ThreadService) Archive(ctx context.Context, threadID string) (model.Thread, error) {
	return fetch[model.Thread](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   backend.Pathf("/threads/%s:archive", threadID),
	}, "error archiving thread")
}

func (s *ThreadService) Delete(ctx context.Context, threadID string) error {
	return s.call(ctx, &client.Request{
		Method: http.MethodDelete,
		Path:   backend.Pathf("/threads/%s", threadID),
	}, nil, "error deleting thread")
}
