package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// Request is one call to a backend. Path must already be escaped (see
// backend.Pathf). Optional parameters the caller did not supply must be left
// out of Query entirely rather than sent empty.
type Request struct {
	Backend string
	Method  string
	Path    string
	Query   url.Values
	Header  http.Header
	// JSON, when non-nil, is encoded as the request body.
	JSON any
	// File, when non-nil, is sent as a single-part multipart/form-data body.
	// JSON and File are mutually exclusive.
	File *FilePart
}

// FilePart is an uploaded file forwarded unchanged to a backend.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// body encodes the request payload. It is called once per attempt so that
// retried requests get a fresh reader.
func (r *Request) body() (io.Reader, string, error) {
	switch {
	case r.JSON != nil && r.File != nil:
		return nil, "", fmt.Errorf("request to %s %s has both a JSON and a file body", r.Backend, r.Path)
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	case r.File != nil:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(r.File.Field), quoteEscaper.Replace(r.File.Filename)))
		ct := r.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create multipart part: %w", err)
		}
		if _, err := part.Write(r.File.Data); err != nil {
			return nil, "", fmt.Errorf("write multipart part: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart writer: %w", err)
		}
		return &buf, mw.FormDataContentType(), nil
	default:
		return nil, "", nil
	}
}

type requestIDKey struct{}

// WithRequestID returns a context carrying the inbound request id, which is
// forwarded to backends as X-Request-Id.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
