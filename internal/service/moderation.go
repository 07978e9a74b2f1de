package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// ModerationService talks to the moderation backend. Administrative
// operations forward the caller's X-API-Key.
type ModerationService struct {
	caller
}

// NewModerationService returns a ModerationService calling the moderation backend through up.
func NewModerationService(up Upstream) *ModerationService {
	return &ModerationService{caller{up: up, backend: config.BackendModeration}}
}

// WordFilter narrows a blacklist listing. Nil fields are not forwarded.
type WordFilter struct {
	Language *string
	Category *string
	Severity *string
	Limit    int
	Skip     int
}

// RequireAPIKey rejects an administrative call made without an API key.
func RequireAPIKey(apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return apierror.BadRequest("X-API-Key header is required")
	}
	return nil
}

func apiKeyHeader(apiKey string) (http.Header, error) {
	if err := RequireAPIKey(apiKey); err != nil {
		return nil, err
	}
	return http.Header{"X-Api-Key": {apiKey}}, nil
}

func requireChannel(channelID string) error {
	if strings.TrimSpace(channelID) == "" {
		return apierror.BadRequest("channel_id query parameter is required")
	}
	return nil
}

func (s *ModerationService) Check(ctx context.Context, in model.ModerateMessageRequest) (model.ModerateMessageResponse, error) {
	return fetch[model.ModerateMessageResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/moderation/check",
		JSON:   in,
	}, "error moderating message")
}

func (s *ModerationService) Analyze(ctx context.Context, in model.AnalyzeTextRequest) (model.AnalyzeTextResponse, error) {
	return fetch[model.AnalyzeTextResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/moderation/analyze",
		JSON:   in,
	}, "error analyzing text")
}

func (s *ModerationService) Status(ctx context.Context, userID, channelID string) (model.ModerationStatus, error) {
	return fetch[model.ModerationStatus](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/api/v1/moderation/status/%s/%s", userID, channelID),
	}, "error fetching moderation status")
}

func (s *ModerationService) AddWord(ctx context.Context, apiKey string, in model.AddWordRequest) (model.SuccessResponse, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.SuccessResponse{}, err
	}
	return fetch[model.SuccessResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/blacklist/words",
		Header: h,
		JSON:   in,
	}, "error adding blacklist word")
}

func (s *ModerationService) ListWords(ctx context.Context, f WordFilter) (model.BlacklistWords, error) {
	q := url.Values{
		"limit": {strconv.Itoa(f.Limit)},
		"skip":  {strconv.Itoa(f.Skip)},
	}
	if f.Language != nil {
		q.Set("language", *f.Language)
	}
	if f.Category != nil {
		q.Set("category", *f.Category)
	}
	if f.Severity != nil {
		q.Set("severity", *f.Severity)
	}
	return fetch[model.BlacklistWords](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/blacklist/words",
		Query:  q,
	}, "error listing blacklist words")
}

func (s *ModerationService) DeleteWord(ctx context.Context, apiKey, wordID string) (model.SuccessResponse, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.SuccessResponse{}, err
	}
	return fetch[model.SuccessResponse](ctx, s.caller, &client.Request{
		Method: http.MethodDelete,
		Path:   backend.Pathf("/api/v1/blacklist/words/%s", wordID),
		Header: h,
	}, "error deleting blacklist word")
}

func (s *ModerationService) BlacklistStats(ctx context.Context) (model.BlacklistStats, error) {
	return fetch[model.BlacklistStats](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/blacklist/stats",
	}, "error fetching blacklist stats")
}

func (s *ModerationService) RefreshCache(ctx context.Context, apiKey string) (model.SuccessResponse, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.SuccessResponse{}, err
	}
	return fetch[model.SuccessResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/blacklist/refresh-cache",
		Header: h,
	}, "error refreshing blacklist cache")
}

// BannedUsers lists bans, optionally restricted to one channel.
func (s *ModerationService) BannedUsers(ctx context.Context, apiKey string, channelID *string) (model.BannedUsers, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.BannedUsers{}, err
	}
	var q url.Values
	if channelID != nil {
		q = url.Values{"channel_id": {*channelID}}
	}
	return fetch[model.BannedUsers](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/admin/banned-users",
		Header: h,
		Query:  q,
	}, "error fetching banned users")
}

func (s *ModerationService) UserViolations(ctx context.Context, apiKey, userID, channelID string, limit int) (model.UserViolations, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.UserViolations{}, err
	}
	if err := requireChannel(channelID); err != nil {
		return model.UserViolations{}, err
	}
	return fetch[model.UserViolations](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/api/v1/admin/users/%s/violations", userID),
		Header: h,
		Query: url.Values{
			"channel_id": {channelID},
			"limit":      {strconv.Itoa(limit)},
		},
	}, "error fetching violation history")
}

func (s *ModerationService) Unban(ctx context.Context, apiKey, userID string, in model.UnbanUserRequest) (model.SuccessResponse, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.SuccessResponse{}, err
	}
	return fetch[model.SuccessResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPut,
		Path:   backend.Pathf("/api/v1/admin/users/%s/unban", userID),
		Header: h,
		JSON:   in,
	}, "error unbanning user")
}

func (s *ModerationService) UserStatus(ctx context.Context, apiKey, userID, channelID string) (model.UserModerationStatus, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.UserModerationStatus{}, err
	}
	if err := requireChannel(channelID); err != nil {
		return model.UserModerationStatus{}, err
	}
	return fetch[model.UserModerationStatus](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/api/v1/admin/users/%s/status", userID),
		Header: h,
		Query:  url.Values{"channel_id": {channelID}},
	}, "error fetching user status")
}

func (s *ModerationService) ResetStrikes(ctx context.Context, apiKey, userID, channelID string) (model.SuccessResponse, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.SuccessResponse{}, err
	}
	if err := requireChannel(channelID); err != nil {
		return model.SuccessResponse{}, err
	}
	return fetch[model.SuccessResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   backend.Pathf("/api/v1/admin/users/%s/reset-strikes", userID),
		Header: h,
		Query:  url.Values{"channel_id": {channelID}},
	}, "error resetting user strikes")
}

func (s *ModerationService) ChannelStats(ctx context.Context, apiKey, channelID string) (model.ChannelModerationStats, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.ChannelModerationStats{}, err
	}
	return fetch[model.ChannelModerationStats](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/api/v1/admin/channels/%s/stats", channelID),
		Header: h,
	}, "error fetching channel stats")
}

func (s *ModerationService) ExpireBans(ctx context.Context, apiKey string) (model.SuccessResponse, error) {
	h, err := apiKeyHeader(apiKey)
	if err != nil {
		return model.SuccessResponse{}, err
	}
	return fetch[model.SuccessResponse](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/admin/maintenance/expire-bans",
		Header: h,
	}, "error expiring bans")
}
