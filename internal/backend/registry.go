// Package backend resolves logical backend names to their base URLs and owns
// the single rule for joining a base URL with an operation path.
package backend

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"chat-gateway-go/internal/config"
)

// ErrConfiguration is returned when a backend is unknown or misconfigured.
var ErrConfiguration = errors.New("backend configuration error")

// Descriptor names a backend and its normalized base URL.
type Descriptor struct {
	Name    string
	BaseURL string // no trailing slash
	Config  config.BackendConfig
}

// URL joins the descriptor's base URL with an already-escaped path and the
// given query. Exactly one slash separates base and path; a trailing slash on
// path is kept because some backends route "/v1/channels/" and "/v1/channels"
// differently.
func (d Descriptor) URL(path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(d.BaseURL)
	if path != "" {
		b.WriteByte('/')
		b.WriteString(strings.TrimLeft(path, "/"))
	}
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}

// Registry is the immutable set of backends built at startup.
type Registry struct {
	backends map[string]Descriptor
}

// NewRegistry builds a Registry from the loaded configuration.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	r := &Registry{backends: make(map[string]Descriptor, len(cfg.Backends))}
	for name, bc := range cfg.Backends {
		base, err := normalizeBaseURL(bc.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfiguration, name, err)
		}
		r.backends[name] = Descriptor{Name: name, BaseURL: base, Config: bc}
	}
	return r, nil
}

// Resolve returns the descriptor for name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, ok := r.backends[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: unknown backend %q", ErrConfiguration, name)
	}
	return d, nil
}

// All returns every descriptor sorted by name.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.backends))
	for _, d := range r.backends {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("empty base URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("base URL %q is not an absolute http(s) URL", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("base URL %q must not carry a query or fragment", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Pathf formats an operation path, percent-encoding every argument as a
// single path segment. Only the format string may contain '/'.
//
//	Pathf("/v1/channels/%s/basic", id)
func Pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}
