package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

// ChannelHandler serves /api/v1/channels.
type ChannelHandler struct {
	svc *service.ChannelService
}

// NewChannelHandler creates a ChannelHandler.
func NewChannelHandler(svc *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

func (h *ChannelHandler) Create(c echo.Context) error {
	var in model.ChannelCreate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Create(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ChannelHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page", intRange{Default: 1, Min: 1})
	if err != nil {
		return err
	}
	size, err := queryInt(c, "page_size", intRange{Default: 10, Min: 1, Max: 100})
	if err != nil {
		return err
	}
	out, err := h.svc.List(requestContext(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) Get(c echo.Context) error {
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Get(requestContext(c), channelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) Update(c echo.Context) error {
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	var in model.ChannelUpdate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Update(requestContext(c), channelID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) Deactivate(c echo.Context) error {
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Deactivate(requestContext(c), channelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) Reactivate(c echo.Context) error {
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Reactivate(requestContext(c), channelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) BasicInfo(c echo.Context) error {
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.BasicInfo(requestContext(c), channelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) AddMember(c echo.Context) error {
	var in model.ChannelUser
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.AddMember(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) RemoveMember(c echo.Context) error {
	var in model.ChannelUser
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.RemoveMember(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) ChannelsForUser(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	out, err := h.svc.ChannelsForUser(requestContext(c), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) ChannelsForOwner(c echo.Context) error {
	ownerID, err := pathParam(c, "owner_id")
	if err != nil {
		return err
	}
	out, err := h.svc.ChannelsForOwner(requestContext(c), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChannelHandler) Members(c echo.Context) error {
	page, err := queryInt(c, "page", intRange{Default: 1, Min: 1})
	if err != nil {
		return err
	}
	size, err := queryInt(c, "page_size", intRange{Default: 100, Min: 1, Max: 1000})
	if err != nil {
		return err
	}
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Members(requestContext(c), channelID, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
