package handler

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
	"chat-gateway-go/internal/client"
)

// requestContext returns the inbound request context carrying the request
// id assigned by the RequestID middleware, so it reaches every backend.
func requestContext(c echo.Context) context.Context {
	return client.WithRequestID(c.Request().Context(), c.Response().Header().Get(echo.HeaderXRequestID))
}

// optionalQuery returns nil when name is absent from the query string.
func optionalQuery(c echo.Context, name string) *string {
	vals, ok := c.QueryParams()[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

// intRange bounds an integer query parameter. A zero Max means unbounded.
type intRange struct {
	Default int
	Min     int
	Max     int
}

// queryInt parses name as an integer within r, using r.Default when absent.
func queryInt(c echo.Context, name string, r intRange) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return r.Default, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.Unprocessable("query parameter %q must be an integer", name)
	}
	if n < r.Min {
		return 0, apierror.Unprocessable("query parameter %q must be >= %d", name, r.Min)
	}
	if r.Max > 0 && n > r.Max {
		return 0, apierror.Unprocessable("query parameter %q must be <= %d", name, r.Max)
	}
	return n, nil
}

// optionalQueryInt parses name as an integer, returning nil when absent.
func optionalQueryInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierror.Unprocessable("query parameter %q must be an integer", name)
	}
	return &n, nil
}

// pathParam returns the decoded value of a path parameter. Echo routes on the
// raw path whenever the request carries escapes such as %2F, leaving the
// value escaped; it is unescaped here so the backend path escapes it once.
// Dot segments are rejected.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath != "" {
		u, err := url.PathUnescape(v)
		if err != nil {
			return "", apierror.Unprocessable("path parameter %q is not validly escaped", name)
		}
		v = u
	}
	if v == "." || v == ".." {
		return "", apierror.BadRequest("path parameter %q must not be a dot segment", name)
	}
	return v, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	raw, err := pathParam(c, name)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.Unprocessable("path parameter %q must be a UUID", name)
	}
	return id, nil
}

// queryTime parses a required RFC 3339 timestamp.
func queryTime(c echo.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return time.Time{}, apierror.BadRequest("%s query parameter is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apierror.Unprocessable("query parameter %q must be an RFC 3339 timestamp", name)
	}
	return t, nil
}
