package service

import (
	"context"
	"net/http"
	"strings"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// UserService talks to the users/auth backend. The bearer token is opaque
// to the gateway and forwarded verbatim.
type UserService struct {
	caller
}

// NewUserService returns a UserService calling the users backend through up.
func NewUserService(up Upstream) *UserService {
	return &UserService{caller{up: up, backend: config.BackendUsers}}
}

// RequireAuthorization rejects a profile call without credentials.
func RequireAuthorization(authorization string) error {
	if strings.TrimSpace(authorization) == "" {
		return apierror.BadRequest("Authorization header is required")
	}
	return nil
}

func authHeader(authorization string) (http.Header, error) {
	if err := RequireAuthorization(authorization); err != nil {
		return nil, err
	}
	return http.Header{"Authorization": {authorization}}, nil
}

func (s *UserService) Register(ctx context.Context, in model.UserRegister) (model.User, error) {
	return fetch[model.User](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/v1/users/register",
		JSON:   in,
	}, "error registering user")
}

func (s *UserService) Login(ctx context.Context, in model.UserLogin) (model.Token, error) {
	return fetch[model.Token](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/v1/auth/login",
		JSON:   in,
	}, "error logging in")
}

func (s *UserService) Me(ctx context.Context, authorization string) (model.User, error) {
	h, err := authHeader(authorization)
	if err != nil {
		return model.User{}, err
	}
	return fetch[model.User](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/v1/users/me",
		Header: h,
	}, "error fetching user profile")
}

func (s *UserService) UpdateMe(ctx context.Context, authorization string, in model.UserUpdate) (model.User, error) {
	h, err := authHeader(authorization)
	if err != nil {
		return model.User{}, err
	}
	return fetch[model.User](ctx, s.caller, &client.Request{
		Method: http.MethodPatch,
		Path:   "/v1/users/me",
		Header: h,
		JSON:   in,
	}, "error updating user profile")
}
