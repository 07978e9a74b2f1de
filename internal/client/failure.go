package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies why an upstream call did not produce a usable result.
type Kind int

const (
	// KindNetwork means no response was received: refused connection, DNS
	// failure, reset, caller cancellation or an open circuit breaker.
	KindNetwork Kind = iota + 1
	// KindTimeout means a connect, read, write or total timeout elapsed.
	KindTimeout
	// KindStatus means the backend answered with a non-2xx status.
	KindStatus
	// KindDecode means a 2xx body could not be decoded into the expected shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Failure describes an upstream call that failed. StatusCode and Body are
// only set for KindStatus (and for KindDecode, where they hold the 2xx reply).
type Failure struct {
	Kind       Kind
	Backend    string
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (f *Failure) Error() string {
	switch {
	case f.Kind == KindStatus:
		return fmt.Sprintf("upstream %s %s %s: status %d", f.Backend, f.Method, f.Path, f.StatusCode)
	case f.Err != nil:
		return fmt.Sprintf("upstream %s %s %s: %s: %v", f.Backend, f.Method, f.Path, f.Kind, f.Err)
	default:
		return fmt.Sprintf("upstream %s %s %s: %s", f.Backend, f.Method, f.Path, f.Kind)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// HasResponse reports whether the backend produced an HTTP response.
func (f *Failure) HasResponse() bool {
	return f.Kind == KindStatus || f.Kind == KindDecode
}

// AsFailure extracts a *Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// classify maps a transport error to a failure kind.
func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
