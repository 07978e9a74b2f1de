package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

// PresenceHandler serves /api/v1/presence.
type PresenceHandler struct {
	svc *service.PresenceService
}

// NewPresenceHandler creates a PresenceHandler.
func NewPresenceHandler(svc *service.PresenceService) *PresenceHandler {
	return &PresenceHandler{svc: svc}
}

func (h *PresenceHandler) Health(c echo.Context) error {
	out, err := h.svc.Health(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PresenceHandler) Connect(c echo.Context) error {
	var in model.UserConnection
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Connect(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PresenceHandler) List(c echo.Context) error {
	var status *model.PresenceStatus
	if raw := optionalQuery(c, "status"); raw != nil {
		s := model.PresenceStatus(*raw)
		if s != model.PresenceOnline && s != model.PresenceOffline {
			return apierror.Unprocessable("query parameter %q must be one of: online offline", "status")
		}
		status = &s
	}
	out, err := h.svc.List(requestContext(c), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PresenceHandler) Stats(c echo.Context) error {
	out, err := h.svc.Stats(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PresenceHandler) Get(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Get(requestContext(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PresenceHandler) Update(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	var in model.StatusUpdate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Update(requestContext(c), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PresenceHandler) Delete(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Delete(requestContext(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
