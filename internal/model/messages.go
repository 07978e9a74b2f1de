package model

import "github.com/google/uuid"

type MessageCreate struct {
	Content string   `json:"content" validate:"required"`
	Type    *string  `json:"type"`
	Paths   []string `json:"paths"`
}

// MessageUpdate is a partial message update; nil fields are not sent.
type MessageUpdate struct {
	Content *string  `json:"content,omitempty"`
	Paths   []string `json:"paths,omitempty"`
}

type Message struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	ThreadID  uuid.UUID `json:"thread_id" validate:"required"`
	UserID    uuid.UUID `json:"user_id"`
	Type      *string   `json:"type"`
	Content   *string   `json:"content"`
	Paths     []string  `json:"paths"`
	CreatedAt *string   `json:"created_at"`
	UpdatedAt *string   `json:"updated_at"`
}

// MessagesPage is one cursor page of a thread's messages.
type MessagesPage struct {
	Items      []Message `json:"items" validate:"dive"`
	NextCursor *string   `json:"next_cursor"`
	HasMore    bool      `json:"has_more"`
}
