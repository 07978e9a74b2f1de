package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
)

// responseStatus resolves the status code of a finished request. When a
// handler returns an error the response has not been written yet; Echo's
// central error handler writes it later, so the code is read from the error.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var ae *apierror.Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
