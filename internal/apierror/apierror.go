// Package apierror defines the single error shape the gateway returns to
// callers and the translation of upstream failures into it.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"chat-gateway-go/internal/client"
)

// Error is a client-facing error rendered as {"detail": "..."}.
type Error struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// New returns an Error with the given status and detail.
func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

// BadRequest reports a missing or malformed correlation parameter or header.
// Such requests are rejected before any upstream call.
func BadRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: fmt.Sprintf(format, args...)}
}

// Unprocessable reports a request body or typed parameter that fails validation.
func Unprocessable(format string, args ...any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Detail: fmt.Sprintf(format, args...)}
}

// errorBody is the optional-field shape backends use for error payloads.
// Fields are decoded as raw JSON so that a non-string value is ignored
// instead of failing the whole body.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// Translate maps an upstream failure to the error returned to the caller.
//
// A Status failure keeps the upstream status and uses the body's "message",
// then "detail", then defaultMessage. Failures without a usable upstream
// answer (network, timeout, decode) become 502 with defaultMessage.
// Translate is pure.
func Translate(f *client.Failure, defaultMessage string) *Error {
	if f == nil || f.Kind != client.KindStatus {
		return &Error{Status: http.StatusBadGateway, Detail: defaultMessage}
	}
	return &Error{Status: f.StatusCode, Detail: messageFrom(f.Body, defaultMessage)}
}

func messageFrom(body []byte, defaultMessage string) string {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return defaultMessage
	}
	if s, ok := nonEmptyString(eb.Message); ok {
		return s
	}
	if s, ok := nonEmptyString(eb.Detail); ok {
		return s
	}
	return defaultMessage
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// FromError converts any error produced while serving an operation into an
// Error. An *Error passes through unchanged, an upstream *client.Failure is
// translated with defaultMessage, and anything else is a 502 since it can
// only come from the upstream leg (misconfiguration, request encoding).
func FromError(err error, defaultMessage string) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if f, ok := client.AsFailure(err); ok {
		return Translate(f, defaultMessage)
	}
	return &Error{Status: http.StatusBadGateway, Detail: defaultMessage}
}
