// Package apperr defines the error kinds shared by the price resolver and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_error"
	default:
		return "internal_error"
	}
}

// Error carries a Kind and, for upstream failures, the provider status code.
type Error struct {
	Kind           Kind
	Message        string
	UpstreamStatus int
	Err            error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Kind == KindUpstream {
		msg = fmt.Sprintf("%s (upstream status %d)", msg, e.UpstreamStatus)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Upstream(status int, err error) error {
	return &Error{Kind: KindUpstream, Message: "price provider request failed", UpstreamStatus: status, Err: err}
}

func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// UpstreamStatus returns the provider status code carried by err, if any.
func UpstreamStatus(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindUpstream {
		return e.UpstreamStatus, true
	}
	return 0, false
}

// HTTPStatus maps a Kind to the response status the API returns for it.
// Upstream failures surface as 500; the provider status travels in the body.
func HTTPStatus(k Kind) int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
