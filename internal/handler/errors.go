package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"detail": "..."}. Errors that are neither *apierror.Error nor
// *echo.HTTPError are reported as 500 without leaking their text.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "error_handler")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ae := toAPIError(err)

		attrs := []any{
			"status", ae.Status,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		}
		if ae.Status >= http.StatusInternalServerError {
			logger.Error("request failed", append(attrs, "err", err)...)
		} else {
			logger.Debug("request rejected", append(attrs, "detail", ae.Detail)...)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(ae.Status)
		} else {
			writeErr = c.JSON(ae.Status, ae)
		}
		if writeErr != nil {
			logger.Error("writing error response", "err", writeErr)
		}
	}
}

func toAPIError(err error) *apierror.Error {
	var ae *apierror.Error
	if errors.As(err, &ae) {
		return ae
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		detail := http.StatusText(he.Code)
		switch m := he.Message.(type) {
		case string:
			detail = m
		case error:
			detail = m.Error()
		case nil:
		default:
			detail = fmt.Sprint(m)
		}
		return apierror.New(he.Code, detail)
	}

	return apierror.New(http.StatusInternalServerError, "internal server error")
}
