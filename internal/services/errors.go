package services

import (
	"context"
	"errors"

	"github.com/soaringjerry/Candor/internal/backend"
	"github.com/soaringjerry/Candor/internal/form"
	"github.com/soaringjerry/Candor/internal/quality"
)

type ErrorCode string

const (
	ErrorInvalid              ErrorCode = "invalid"
	ErrorForbidden            ErrorCode = "forbidden"
	ErrorNotFound             ErrorCode = "not_found"
	ErrorConflict             ErrorCode = "conflict"
	ErrorUnauthorized         ErrorCode = "unauthorized"
	ErrorBadGateway           ErrorCode = "bad_gateway"
	ErrorTooManyRequests      ErrorCode = "too_many_requests"
	ErrorConfirmationRequired ErrorCode = "confirmation_required"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	// Details is rendered next to the message, e.g. per-field validation errors.
	Details any
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewBadGatewayError(msg string) error { return &ServiceError{Code: ErrorBadGateway, Message: msg} }

func NewTooManyRequestsError(msg string) error {
	return &ServiceError{Code: ErrorTooManyRequests, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrConfirmationRequired is matched by a ConfirmationRequiredError.
var ErrConfirmationRequired = errors.New("this feedback may not be constructive; confirm to submit it anyway")

// ConfirmationRequiredError stops a submission the classifier flagged until
// the author confirms it.
type ConfirmationRequiredError struct {
	Verdict quality.Verdict
}

func (e *ConfirmationRequiredError) Error() string { return ErrConfirmationRequired.Error() }

func (e *ConfirmationRequiredError) Is(target error) bool { return target == ErrConfirmationRequired }

// invalidFromValidation keeps every collected validation problem as details.
func invalidFromValidation(err error) error {
	es, ok := form.AsValidationErrors(err)
	if !ok {
		return NewInvalidError(err.Error())
	}
	return &ServiceError{Code: ErrorInvalid, Message: es.Error(), Details: es}
}

// fromBackend translates a backend failure into the service taxonomy.
func fromBackend(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := err.Error()
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return NewUnauthorizedError(msg)
	case errors.Is(err, backend.ErrForbidden):
		return NewForbiddenError(msg)
	case errors.Is(err, backend.ErrNotFound):
		return NewNotFoundError(msg)
	case errors.Is(err, backend.ErrConflict):
		return NewConflictError("the request changed in the meantime; refresh and retry")
	case errors.Is(err, backend.ErrInvalid), errors.Is(err, backend.ErrUnsupportedArea):
		return NewInvalidError(msg)
	}
	return NewBadGatewayError(msg)
}
