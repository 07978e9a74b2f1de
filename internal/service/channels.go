package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// ChannelService talks to the channels backend.
type ChannelService struct {
	caller
}

// NewChannelService returns a ChannelService calling the channels backend through up.
func NewChannelService(up Upstream) *ChannelService {
	return &ChannelService{caller{up: up, backend: config.BackendChannels}}
}

func pageQuery(page, pageSize int) url.Values {
	return url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
}

func (s *ChannelService) Create(ctx context.Context, in model.ChannelCreate) (model.Channel, error) {
	if in.ChannelType == "" {
		in.ChannelType = model.ChannelPublic
	}
	return fetch[model.Channel](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/v1/channels/",
		JSON:   in,
	}, "error creating channel")
}

func (s *ChannelService) List(ctx context.Context, page, pageSize int) ([]model.ChannelBasicInfo, error) {
	return fetch[[]model.ChannelBasicInfo](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/v1/channels/",
		Query:  pageQuery(page, pageSize),
	}, "error listing channels")
}

func (s *ChannelService) Get(ctx context.Context, channelID string) (model.Channel, error) {
	return fetch[model.Channel](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/v1/channels/%s", channelID),
	}, "error fetching channel")
}

func (s *ChannelService) Update(ctx context.Context, channelID string, in model.ChannelUpdate) (model.Channel, error) {
	return fetch[model.Channel](ctx, s.caller, &client.Request{
		Method: http.MethodPut,
		Path:   backend.Pathf("/v1/channels/%s", channelID),
		JSON:   in,
	}, "error updating channel")
}

// Deactivate soft-deletes a channel.
func (s *ChannelService) Deactivate(ctx context.Context, channelID string) (model.ChannelID, error) {
	return fetch[model.ChannelID](ctx, s.caller, &client.Request{
		Method: http.MethodDelete,
		Path:   backend.Pathf("/v1/channels/%s", channelID),
	}, "error deactivating channel")
}

func (s *ChannelService) Reactivate(ctx context.Context, channelID string) (model.ChannelID, error) {
	return fetch[model.ChannelID](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   backend.Pathf("/v1/channels/%s/reactivate", channelID),
	}, "error reactivating channel")
}

func (s *ChannelService) BasicInfo(ctx context.Context, channelID string) (model.ChannelBasicInfo, error) {
	return fetch[model.ChannelBasicInfo](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/v1/channels/%s/basic", channelID),
	}, "error fetching channel basic info")
}

func (s *ChannelService) AddMember(ctx context.Context, in model.ChannelUser) (model.Channel, error) {
	return fetch[model.Channel](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/v1/members/",
		JSON:   in,
	}, "error adding channel member")
}

// RemoveMember sends the member in a DELETE body, which the backend expects.
func (s *ChannelService) RemoveMember(ctx context.Context, in model.ChannelUser) (model.Channel, error) {
	return fetch[model.Channel](ctx, s.caller, &client.Request{
		Method: http.MethodDelete,
		Path:   "/v1/members/",
		JSON:   in,
	}, "error removing channel member")
}

func (s *ChannelService) ChannelsForUser(ctx context.Context, userID string) ([]model.ChannelBasicInfo, error) {
	return fetch[[]model.ChannelBasicInfo](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/v1/members/%s", userID),
	}, "error fetching user channels")
}

func (s *ChannelService) ChannelsForOwner(ctx context.Context, ownerID string) ([]model.ChannelBasicInfo, error) {
	return fetch[[]model.ChannelBasicInfo](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/v1/members/owner/%s", ownerID),
	}, "error fetching owner channels")
}

func (s *ChannelService) Members(ctx context.Context, channelID string, page, pageSize int) ([]model.ChannelMember, error) {
	return fetch[[]model.ChannelMember](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/v1/members/channel/%s", channelID),
		Query:  pageQuery(page, pageSize),
	}, "error fetching channel members")
}
