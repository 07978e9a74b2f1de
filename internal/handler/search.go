package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

var searchLimit = intRange{Default: 10, Min: 1, Max: 100}

// SearchHandler serves /api/v1/search.
type SearchHandler struct {
	svc *service.SearchService
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

func paging(c echo.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit", searchLimit); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset", intRange{Min: 0}); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// optionalInts parses each named query parameter into its destination.
func optionalInts(c echo.Context, dst map[string]**int) error {
	for name, p := range dst {
		v, err := optionalQueryInt(c, name)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

func (h *SearchHandler) General(c echo.Context) error {
	in := model.GeneralSearch{Q: optionalQuery(c, "q")}
	if err := optionalInts(c, map[string]**int{
		"channel_id": &in.ChannelID,
		"thread_id":  &in.ThreadID,
		"author_id":  &in.AuthorID,
	}); err != nil {
		return err
	}
	for _, raw := range c.QueryParams()["index"] {
		k := model.IndexKind(raw)
		if !k.Valid() {
			return apierror.Unprocessable("unknown index kind %q", raw)
		}
		in.Index = append(in.Index, k)
	}
	var err error
	if in.Limit, in.Offset, err = paging(c); err != nil {
		return err
	}

	out, err := h.svc.General(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Threads returns an echo handler searching threads by one attribute taken
// from the :value path parameter.
func (h *SearchHandler) Threads(by model.ThreadLookup) echo.HandlerFunc {
	return func(c echo.Context) error {
		value, err := pathParam(c, "value")
		if err != nil {
			return err
		}
		out, err := h.svc.Threads(requestContext(c), by, value)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (h *SearchHandler) ThreadsByDateRange(c echo.Context) error {
	start, err := queryTime(c, "start_date")
	if err != nil {
		return err
	}
	end, err := queryTime(c, "end_date")
	if err != nil {
		return err
	}
	out, err := h.svc.ThreadsByDateRange(requestContext(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SearchHandler) Messages(c echo.Context) error {
	in := model.MessageSearch{Q: optionalQuery(c, "q")}
	if err := optionalInts(c, map[string]**int{
		"author_id":  &in.AuthorID,
		"thread_id":  &in.ThreadID,
		"message_id": &in.MessageID,
	}); err != nil {
		return err
	}
	var err error
	if in.Limit, in.Offset, err = paging(c); err != nil {
		return err
	}

	out, err := h.svc.Messages(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SearchHandler) Files(c echo.Context) error {
	in := model.FileSearch{Q: optionalQuery(c, "q")}
	if err := optionalInts(c, map[string]**int{
		"thread_id":  &in.ThreadID,
		"message_id": &in.MessageID,
		"pages_min":  &in.PagesMin,
		"pages_max":  &in.PagesMax,
	}); err != nil {
		return err
	}
	var err error
	if in.Limit, in.Offset, err = paging(c); err != nil {
		return err
	}

	out, err := h.svc.Files(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
