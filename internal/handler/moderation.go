package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

const headerAPIKey = "X-API-Key"

// ModerationHandler serves /api/v1/moderation. Administrative routes require
// the caller's X-API-Key, which is forwarded to the moderation backend.
type ModerationHandler struct {
	svc *service.ModerationService
}

// NewModerationHandler creates a ModerationHandler.
func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

func apiKey(c echo.Context) string {
	return c.Request().Header.Get(headerAPIKey)
}

// adminKey is apiKey for routes that take a body: the key is checked before
// the body is bound.
func adminKey(c echo.Context) (string, error) {
	key := apiKey(c)
	if err := service.RequireAPIKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func (h *ModerationHandler) Check(c echo.Context) error {
	var in model.ModerateMessageRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Check(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) Analyze(c echo.Context) error {
	var in model.AnalyzeTextRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Analyze(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) Status(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.Status(requestContext(c), userID, channelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) AddWord(c echo.Context) error {
	key, err := adminKey(c)
	if err != nil {
		return err
	}
	var in model.AddWordRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.AddWord(requestContext(c), key, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) ListWords(c echo.Context) error {
	limit, err := queryInt(c, "limit", intRange{Default: 50, Min: 1, Max: 100})
	if err != nil {
		return err
	}
	skip, err := queryInt(c, "skip", intRange{Default: 0, Min: 0})
	if err != nil {
		return err
	}
	out, err := h.svc.ListWords(requestContext(c), service.WordFilter{
		Language: optionalQuery(c, "language"),
		Category: optionalQuery(c, "category"),
		Severity: optionalQuery(c, "severity"),
		Limit:    limit,
		Skip:     skip,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) DeleteWord(c echo.Context) error {
	wordID, err := pathParam(c, "word_id")
	if err != nil {
		return err
	}
	out, err := h.svc.DeleteWord(requestContext(c), apiKey(c), wordID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) BlacklistStats(c echo.Context) error {
	out, err := h.svc.BlacklistStats(requestContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) RefreshCache(c echo.Context) error {
	out, err := h.svc.RefreshCache(requestContext(c), apiKey(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) BannedUsers(c echo.Context) error {
	out, err := h.svc.BannedUsers(requestContext(c), apiKey(c), optionalQuery(c, "channel_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) UserViolations(c echo.Context) error {
	limit, err := queryInt(c, "limit", intRange{Default: 50, Min: 1, Max: 100})
	if err != nil {
		return err
	}
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	out, err := h.svc.UserViolations(requestContext(c), apiKey(c), userID, c.QueryParam("channel_id"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) Unban(c echo.Context) error {
	key, err := adminKey(c)
	if err != nil {
		return err
	}
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	var in model.UnbanUserRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Unban(requestContext(c), key, userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) UserStatus(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	out, err := h.svc.UserStatus(requestContext(c), apiKey(c), userID, c.QueryParam("channel_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) ResetStrikes(c echo.Context) error {
	userID, err := pathParam(c, "user_id")
	if err != nil {
		return err
	}
	out, err := h.svc.ResetStrikes(requestContext(c), apiKey(c), userID, c.QueryParam("channel_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) ChannelStats(c echo.Context) error {
	channelID, err := pathParam(c, "channel_id")
	if err != nil {
		return err
	}
	out, err := h.svc.ChannelStats(requestContext(c), apiKey(c), channelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ModerationHandler) ExpireBans(c echo.Context) error {
	out, err := h.svc.ExpireBans(requestContext(c), apiKey(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
