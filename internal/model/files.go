package model

import "github.com/google/uuid"

type File struct {
	ID             uuid.UUID `json:"id" validate:"required"`
	Filename       string    `json:"filename"`
	MimeType       string    `json:"mime_type"`
	Size           int64     `json:"size"`
	Bucket         string    `json:"bucket"`
	ObjectKey      string    `json:"object_key"`
	MessageID      *string   `json:"message_id"`
	ThreadID       *string   `json:"thread_id"`
	ChecksumSHA256 string    `json:"checksum_sha256"`
	CreatedAt      string    `json:"created_at"`
	DeletedAt      *string   `json:"deleted_at"`
}

type PresignedDownload struct {
	URL       string `json:"url" validate:"required"`
	ExpiresIn int    `json:"expires_in"`
}

// FileOwner correlates a file with a message and/or a thread. At least one
// must be set.
type FileOwner struct {
	MessageID *string
	ThreadID  *string
}

// Empty reports whether neither id is set.
func (o FileOwner) Empty() bool {
	return o.MessageID == nil && o.ThreadID == nil
}
