package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// MessageService talks to the messages backend. Mutations are attributed
// to the caller through the X-User-Id header.
type MessageService struct {
	caller
}

// NewMessageService returns a MessageService calling the messages backend through up.
func NewMessageService(up Upstream) *MessageService {
	return &MessageService{caller{up: up, backend: config.BackendMessages}}
}

// RequireUserID rejects a mutation that does not name the acting user.
func RequireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apierror.BadRequest("X-User-Id header is required")
	}
	return nil
}

func userHeader(userID string) (http.Header, error) {
	if err := RequireUserID(userID); err != nil {
		return nil, err
	}
	return http.Header{"X-User-Id": {userID}}, nil
}

func (s *MessageService) Create(ctx context.Context, threadID uuid.UUID, userID string, in model.MessageCreate) (model.Message, error) {
	h, err := userHeader(userID)
	if err != nil {
		return model.Message{}, err
	}
	return fetch[model.Message](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   backend.Pathf("/threads/%s/messages", threadID.String()),
		Header: h,
		JSON:   in,
	}, "error creating message")
}

func (s *MessageService) Update(ctx context.Context, threadID, messageID uuid.UUID, userID string, in model.MessageUpdate) (model.Message, error) {
	h, err := userHeader(userID)
	if err != nil {
		return model.Message{}, err
	}
	return fetch[model.Message](ctx, s.caller, &client.Request{
		Method: http.MethodPut,
		Path:   backend.Pathf("/threads/%s/messages/%s", threadID.String(), messageID.String()),
		Header: h,
		JSON:   in,
	}, "error updating message")
}

func (s *MessageService) Delete(ctx context.Context, threadID, messageID uuid.UUID, userID string) error {
	h, err := userHeader(userID)
	if err != nil {
		return err
	}
	return s.call(ctx, &client.Request{
		Method: http.MethodDelete,
		Path:   backend.Pathf("/threads/%s/messages/%s", threadID.String(), messageID.String()),
		Header: h,
	}, nil, "error deleting message")
}

// List returns one page of a thread's messages. A nil cursor starts from
// the beginning.
func (s *MessageService) List(ctx context.Context, threadID uuid.UUID, limit int, cursor *string) (model.MessagesPage, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if cursor != nil {
		q.Set("cursor", *cursor)
	}
	return fetch[model.MessagesPage](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/threads/%s/messages", threadID.String()),
		Query:  q,
	}, "error listing thread messages")
}
