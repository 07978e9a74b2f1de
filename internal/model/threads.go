package model

type ThreadStatus string

const (
	ThreadOpen     ThreadStatus = "open"
	ThreadArchived ThreadStatus = "archived"
)

type ThreadCreate struct {
	ChannelID string         `json:"channel_id" validate:"required"`
	Title     string         `json:"title" validate:"required,min=1,max=200"`
	CreatedBy string         `json:"created_by" validate:"required"`
	Meta      map[string]any `json:"meta"`
}

// ThreadUpdate is a partial thread update; nil fields are not sent.
type ThreadUpdate struct {
	Title  *string        `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Status *ThreadStatus  `json:"status,omitempty" validate:"omitempty,oneof=open archived"`
	Meta   map[string]any `json:"meta,omitempty"`
}

type Thread struct {
	ThreadID  string         `json:"thread_id" validate:"required"`
	ChannelID string         `json:"channel_id" validate:"required"`
	Title     string         `json:"title"`
	CreatedBy string         `json:"created_by"`
	Meta      map[string]any `json:"meta"`
	CreatedAt string         `json:"created_at"`
}

type ThreadBasicInfo struct {
	ThreadID  string `json:"thread_id" validate:"required"`
	Title     string `json:"title"`
	CreatedBy string `json:"created_by"`
	ChannelID string `json:"channel_id"`
}
