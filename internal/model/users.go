package model

import "github.com/google/uuid"

type UserRegister struct {
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	FullName *string `json:"full_name"`
}

type UserLogin struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// UserUpdate is a partial profile update; nil fields are not sent.
type UserUpdate struct {
	FullName *string `json:"full_name,omitempty"`
}

type User struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Email    string    `json:"email"`
	Username string    `json:"username" validate:"required"`
	FullName *string   `json:"full_name"`
	IsActive bool      `json:"is_active"`
}

type Token struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
}
