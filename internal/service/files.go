package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// UploadField is the multipart field name the files backend reads.
const UploadField = "upload"

// FileService talks to the file storage backend.
type FileService struct {
	caller
}

// NewFileService returns a FileService calling the files backend through up.
func NewFileService(up Upstream) *FileService {
	return &FileService{caller{up: up, backend: config.BackendFiles}}
}

func ownerQuery(o model.FileOwner) url.Values {
	q := make(url.Values)
	setString(q, "message_id", o.MessageID)
	setString(q, "thread_id", o.ThreadID)
	return q
}

// RequireUploadOwner rejects an upload attached to neither a message nor a
// thread.
func RequireUploadOwner(owner model.FileOwner) error {
	if owner.Empty() {
		return apierror.BadRequest("either message_id or thread_id is required")
	}
	return nil
}

// Upload stores a file attached to a message and/or a thread.
func (s *FileService) Upload(ctx context.Context, owner model.FileOwner, file client.FilePart) (model.File, error) {
	if err := RequireUploadOwner(owner); err != nil {
		return model.File{}, err
	}
	file.Field = UploadField
	return fetch[model.File](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   "/v1/files",
		Query:  ownerQuery(owner),
		File:   &file,
	}, "error uploading file")
}

func (s *FileService) Get(ctx context.Context, fileID uuid.UUID) (model.File, error) {
	return fetch[model.File](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   backend.Pathf("/v1/files/%s", fileID.String()),
	}, "error fetching file")
}

// List returns the files of a message and/or a thread.
func (s *FileService) List(ctx context.Context, owner model.FileOwner) ([]model.File, error) {
	if owner.Empty() {
		return nil, apierror.BadRequest("filter by message_id or thread_id is required")
	}
	return fetch[[]model.File](ctx, s.caller, &client.Request{
		Method: http.MethodGet,
		Path:   "/v1/files",
		Query:  ownerQuery(owner),
	}, "error listing files")
}

func (s *FileService) Delete(ctx context.Context, fileID uuid.UUID) error {
	return s.call(ctx, &client.Request{
		Method: http.MethodDelete,
		Path:   backend.Pathf("/v1/files/%s", fileID.String()),
	}, nil, "error deleting file")
}

func (s *FileService) PresignDownload(ctx context.Context, fileID uuid.UUID) (model.PresignedDownload, error) {
	return fetch[model.PresignedDownload](ctx, s.caller, &client.Request{
		Method: http.MethodPost,
		Path:   backend.Pathf("/v1/files/%s/presign-download", fileID.String()),
	}, "error generating download URL")
}
