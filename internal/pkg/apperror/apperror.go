// Package apperror defines the error taxonomy shared by repositories,
// services and HTTP handlers.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrBadRequest signals missing or malformed input the client can correct.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals that the caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrConstraintViolation signals a uniqueness or foreign key conflict.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrConnection signals that the backing store could not be reached.
	ErrConnection = errors.New("connection error")
	// ErrUpstreamFailure signals a failing dependent service (payment, storage, auth).
	ErrUpstreamFailure = errors.New("upstream failure")
	// ErrInternal is the fallback for unclassified failures.
	ErrInternal = errors.New("internal error")
)

// Error carries a client-facing message next to its kind.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is makes errors.Is match the kind sentinel.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an error of the given kind with a client-facing message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind error, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func BadRequest(format string, args ...any) error {
	return New(ErrBadRequest, format, args...)
}

func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return New(ErrForbidden, format, args...)
}

func Conflict(format string, args ...any) error {
	return New(ErrConstraintViolation, format, args...)
}

// HTTPStatus maps an error to the status code the API answers with. The
// outermost *Error decides, so a cause wrapped under another kind does not
// leak its status.
func HTTPStatus(err error) int {
	if err == nil {
		return fiber.StatusOK
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return kindStatus(appErr.Kind)
	}
	return kindStatus(err)
}

func kindStatus(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrConstraintViolation):
		return fiber.StatusConflict
	case errors.Is(err, ErrUpstreamFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the message that may be shown to clients.
// Internal failures never expose their cause.
func PublicMessage(err error) string {
	var appErr *Error
	status := HTTPStatus(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusBadGateway {
		return "internal server error"
	}
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	switch status {
	case fiber.StatusNotFound:
		return "resource not found"
	case fiber.StatusConflict:
		return "resource already exists"
	case fiber.StatusBadGateway:
		return "upstream service unavailable"
	}
	return err.Error()
}
