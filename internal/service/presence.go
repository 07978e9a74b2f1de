package service

import (
	"context"
	"net/http"
	"net/url"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

const presenceBase = "/api/v1.0.0/presence"

// PresenceService talks to the presence backend.
type PresenceService struct {
	caller
}

// NewPresenceService returns a PresenceService calling the presence backend through up.
func NewPresenceService(up Upstream) *PresenceService {
	return &PresenceService{caller{up: up, backend: config.BackendPresence}}
}

func (s *PresenceService) Health(ctx context.Context) (model.PresenceHealth, error) {
	return fetch[model.PresenceHealth](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   presenceBase + "/health",
	}, "error checking presence service health")
}

// Connect registers a user's presence. An empty device is sent as unknown.
func (s *PresenceService) Connect(ctx context.Context, in model.UserConnection) (model.Envelope[model.PresenceRecord], error) {
	if in.Device == "" {
		in.Device = model.DeviceUnknown
	}
	return fetch[model.Envelope[model.PresenceRecord]](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   presenceBase,
		JSON:   in,
	}, "error registering user presence")
}

func (s *PresenceService) List(ctx context.Context, status *model.PresenceStatus) (model.Envelope[model.PresenceList], error) {
	var q url.Values
	if status != nil {
		q = url.Values{"status": {string(*status)}}
	}
	return fetch[model.Envelope[model.PresenceList]](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   presenceBase,
		Query:  q,
	}, "error listing user presence")
}

func (s *PresenceService) Stats(ctx context.Context) (model.Envelope[model.PresenceStats], error) {
	return fetch[model.Envelope[model.PresenceStats]](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   presenceBase + "/stats",
	}, "error fetching presence stats")
}

func (s *PresenceService) Get(ctx context.Context, userID string) (model.Envelope[model.UserPresence], error) {
	return fetch[model.Envelope[model.UserPresence]](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf(presenceBase+"/%s", userID),
	}, "error fetching user presence")
}

// Update sets a user's status or records a heartbeat, never both.
func (s *PresenceService) Update(ctx context.Context, userID string, in model.StatusUpdate) (model.Envelope[any], error) {
	if err := in.Check(); err != nil {
		return model.Envelope[any]{}, apierror.Unprocessable("%s", err.Error())
	}
	return fetch[model.Envelope[any]](ctx, s.caller, &client.Request{
		Method: http.MethodPatch,
		Path:   backend.Pathf(presenceBase+"/%s", userID),
		JSON:   in,
	}, "error updating user presence")
}

func (s *PresenceService) Delete(ctx context.Context, userID string) (model.Envelope[any], error) {
	return fetch[model.Envelope[any]](ctx, s.caller, &client.Request{
		Method: http.MethodDelete,
		Path:   backend.Pathf(presenceBase+"/%s", userID),
	}, "error deleting user presence")
}
