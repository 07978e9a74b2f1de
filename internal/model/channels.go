// Package model defines the request and response shapes exchanged with
// callers and backends. Timestamps the backends emit are passed through as
// opaque strings.
package model

// ChannelType is the visibility of a channel.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
)

// ChannelMember is one member entry of a channel.
type ChannelMember struct {
	ID       string  `json:"id" validate:"required"`
	JoinedAt float64 `json:"joined_at"`
}

// Channel is the full channel document.
type Channel struct {
	ID          *string         `json:"id"`
	Name        string          `json:"name" validate:"required"`
	OwnerID     string          `json:"owner_id" validate:"required"`
	Users       []ChannelMember `json:"users"`
	IsActive    bool            `json:"is_active"`
	ChannelType ChannelType     `json:"channel_type"`
	CreatedAt   float64         `json:"created_at"`
	UpdatedAt   float64         `json:"updated_at"`
	DeletedAt   *float64        `json:"deleted_at"`
}

// ChannelCreate is the payload for creating a channel. An empty
// ChannelType means public.
type ChannelCreate struct {
	Name        string      `json:"name" validate:"required"`
	OwnerID     string      `json:"owner_id" validate:"required"`
	ChannelType ChannelType `json:"channel_type" validate:"omitempty,oneof=public private"`
}

// ChannelUpdate is a partial channel update; nil fields are not sent.
type ChannelUpdate struct {
	Name        *string      `json:"name,omitempty"`
	OwnerID     *string      `json:"owner_id,omitempty"`
	ChannelType *ChannelType `json:"channel_type,omitempty" validate:"omitempty,oneof=public private"`
}

// ChannelBasicInfo is the summary form used by listings.
type ChannelBasicInfo struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	OwnerID     string      `json:"owner_id"`
	ChannelType ChannelType `json:"channel_type"`
	CreatedAt   float64     `json:"created_at"`
	UserCount   int         `json:"user_count"`
}

type ChannelID struct {
	ID string `json:"id" validate:"required"`
}

// ChannelUser adds or removes a user from a channel.
type ChannelUser struct {
	ChannelID string `json:"channel_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
}
