package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

const headerUserID = "X-User-Id"

// actingUser returns the X-User-Id header, rejecting the request when it is
// missing so the body is never looked at.
func actingUser(c echo.Context) (string, error) {
	userID := c.Request().Header.Get(headerUserID)
	if err := service.RequireUserID(userID); err != nil {
		return "", err
	}
	return userID, nil
}

// MessageHandler serves /api/v1/messages. Mutations act on behalf of the
// user named in X-User-Id.
type MessageHandler struct {
	svc *service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) Create(c echo.Context) error {
	threadID, err := uuidParam(c, "thread_id")
	if err != nil {
		return err
	}
	userID, err := actingUser(c)
	if err != nil {
		return err
	}
	var in model.MessageCreate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Create(requestContext(c), threadID, userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *MessageHandler) Update(c echo.Context) error {
	threadID, err := uuidParam(c, "thread_id")
	if err != nil {
		return err
	}
	messageID, err := uuidParam(c, "message_id")
	if err != nil {
		return err
	}
	userID, err := actingUser(c)
	if err != nil {
		return err
	}
	var in model.MessageUpdate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Update(requestContext(c), threadID, messageID, userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MessageHandler) Delete(c echo.Context) error {
	threadID, err := uuidParam(c, "thread_id")
	if err != nil {
		return err
	}
	messageID, err := uuidParam(c, "message_id")
	if err != nil {
		return err
	}
	userID, err := actingUser(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(requestContext(c), threadID, messageID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) List(c echo.Context) error {
	threadID, err := uuidParam(c, "thread_id")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", intRange{Default: 50, Min: 1, Max: 200})
	if err != nil {
		return err
	}
	out, err := h.svc.List(requestContext(c), threadID, limit, optionalQuery(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
