package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("backend: authentication required")
	ErrForbidden    = errors.New("backend: not allowed")
	ErrNotFound     = errors.New("backend: not found")
	ErrConflict     = errors.New("backend: conflicting update")
	ErrInvalid      = errors.New("backend: request rejected")
	ErrUnavailable  = errors.New("backend: unavailable")
)

// Error is a failed backend call. It matches one of the sentinels above
// with errors.Is, chosen by status.
type Error struct {
	Status  int
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.kind().Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool { return target == e.kind() }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) kind() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status >= 400 && e.Status < 500:
		return ErrInvalid
	}
	return ErrUnavailable
}

// transportError wraps a failure to reach the backend at all.
func transportError(err error) *Error {
	return &Error{Message: fmt.Sprintf("backend unreachable: %v", err), err: err}
}

// IsRetriable reports whether a read may be attempted again: transport
// failures and 5xx answers only.
func IsRetriable(err error) bool {
	var be *Error
	if !errors.As(err, &be) {
		return false
	}
	return be.Status == 0 || be.Status >= 500
}
