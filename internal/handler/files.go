package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

// FileHandler serves /api/v1/files.
type FileHandler struct {
	svc *service.FileService
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(svc *service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

func fileOwner(c echo.Context) model.FileOwner {
	return model.FileOwner{
		MessageID: optionalQuery(c, "message_id"),
		ThreadID:  optionalQuery(c, "thread_id"),
	}
}

// readUpload loads the multipart "upload" field into memory. The request
// body is already bounded by the body limit middleware.
func readUpload(c echo.Context) (client.FilePart, error) {
	fh, err := c.FormFile(service.UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return client.FilePart{}, apierror.Unprocessable("field %q is required", service.UploadField)
		}
		return client.FilePart{}, apierror.Unprocessable("invalid multipart body")
	}
	f, err := fh.Open()
	if err != nil {
		return client.FilePart{}, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return client.FilePart{}, err
	}
	return client.FilePart{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func (h *FileHandler) Upload(c echo.Context) error {
	owner := fileOwner(c)
	if err := service.RequireUploadOwner(owner); err != nil {
		return err
	}
	part, err := readUpload(c)
	if err != nil {
		return err
	}
	out, err := h.svc.Upload(requestContext(c), owner, part)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FileHandler) List(c echo.Context) error {
	out, err := h.svc.List(requestContext(c), fileOwner(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FileHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "file_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Get(requestContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FileHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "file_id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(requestContext(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FileHandler) PresignDownload(c echo.Context) error {
	id, err := uuidParam(c, "file_id")
	if err != nil {
		return err
	}
	out, err := h.svc.PresignDownload(requestContext(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
