package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/apierror"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"api error", apierror.New(http.StatusConflict, "channel exists"), http.StatusConflict, "channel exists"},
		{"wrapped api error", errors.Join(errors.New("ctx"), apierror.BadRequest("missing")), http.StatusBadRequest, "missing"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"echo error with message", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{"unknown error", errors.New("boom: secret internals"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["detail"] != tt.wantDetail {
				t.Errorf("detail = %q, want %q", body["detail"], tt.wantDetail)
			}
		})
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/x", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))(apierror.New(http.StatusNotFound, "gone"), c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}
