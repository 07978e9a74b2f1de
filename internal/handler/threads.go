package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

// ThreadHandler serves /api/v1/threads.
type ThreadHandler struct {
	svc *service.ThreadService
}

// NewThreadHandler creates a ThreadHandler.
func NewThreadHandler(svc *service.ThreadService) *ThreadHandler {
	return &ThreadHandler{svc: svc}
}

func (h *ThreadHandler) Create(c echo.Context) error {
	var in model.ThreadCreate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Create(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ThreadHandler) List(c echo.Context) error {
	out, err := h.svc.List(requestContext(c), optionalQuery(c, "channel_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ThreadHandler) Get(c echo.Context) error {
	threadID, err := pathParam(c, "thread_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Get(requestContext(c), threadID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ThreadHandler) Update(c echo.Context) error {
	threadID, err := pathParam(c, "thread_id")
	if err != nil {
		return err
	}
	var in model.ThreadUpdate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Update(requestContext(c), threadID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ThreadHandler) Archive(c echo.Context) error {
	threadID, err := pathParam(c, "thread_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Archive(requestContext(c), threadID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ThreadHandler) Delete(c echo.Context) error {
	threadID, err := pathParam(c, "thread_id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(requestContext(c), threadID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
