package model

import "errors"

type Device string

const (
	DeviceWeb     Device = "web"
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
	DeviceUnknown Device = "unknown"
)

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

// Envelope is the presence service's {status, message, data} wrapper.
type Envelope[T any] struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// UserConnection registers a user's presence. An empty Device means unknown.
type UserConnection struct {
	UserID string  `json:"userId" validate:"required"`
	Device Device  `json:"device" validate:"omitempty,oneof=web mobile desktop unknown"`
	IP     *string `json:"ip" validate:"omitempty,ip"`
}

type UserPresence struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId" validate:"required"`
	Device      Device         `json:"device"`
	Status      PresenceStatus `json:"status"`
	ConnectedAt string         `json:"connectedAt"`
	LastSeen    string         `json:"lastSeen"`
}

type PresenceHealth struct {
	Status  string `json:"status" validate:"required"`
	Message string `json:"message"`
}

type PresenceRecord struct {
	UserID      string `json:"userId" validate:"required"`
	Device      string `json:"device"`
	Status      string `json:"status"`
	ConnectedAt string `json:"connectedAt"`
	LastSeen    string `json:"lastSeen"`
}

type PresenceList struct {
	TotalUsers int            `json:"total_users"`
	Users      []UserPresence `json:"users" validate:"dive"`
}

type PresenceStats struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
}

// StatusUpdate changes a user's presence. Exactly one of Status and
// Heartbeat must be set.
type StatusUpdate struct {
	Status    *PresenceStatus `json:"status,omitempty" validate:"omitempty,oneof=online offline"`
	Heartbeat *bool           `json:"heartbeat,omitempty"`
}

var (
	ErrStatusOrHeartbeat  = errors.New("either 'status' or 'heartbeat' must be sent")
	ErrStatusAndHeartbeat = errors.New("'status' and 'heartbeat' cannot be sent together")
)

// Check enforces the exactly-one rule.
func (u StatusUpdate) Check() error {
	switch {
	case u.Status == nil && u.Heartbeat == nil:
		return ErrStatusOrHeartbeat
	case u.Status != nil && u.Heartbeat != nil:
		return ErrStatusAndHeartbeat
	}
	return nil
}
