// Package errx provides typed application errors with registered codes,
// structured details and an HTTP status mapping.
package errx

import (
	"errors"
	"fmt"
)

// Type categorizes an error.
type Type string

const (
	TypeInternal   Type = "INTERNAL"
	TypeValidation Type = "VALIDATION"
	TypeNotFound   Type = "NOT_FOUND"
	TypeConflict   Type = "CONFLICT"
	TypeBusiness   Type = "BUSINESS"
	TypeExternal   Type = "EXTERNAL"
)

// Error is a rich error carrying a stable code, a category and optional
// structured details. The underlying cause is kept for logs, never for JSON.
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Type       Type                   `json:"type"`
	HTTPStatus int                    `json:"http_status"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail attaches one detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an Error of the given type with a default status mapping.
func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: statusFor(errType),
	}
}

// Wrap wraps err with a message and type. Returns nil when err is nil.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Message:    message,
			Type:       errType,
			HTTPStatus: existing.HTTPStatus,
			Details:    existing.Details,
			Err:        err,
		}
	}
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: statusFor(errType),
		Err:        err,
	}
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func statusFor(t Type) int {
	switch t {
	case TypeValidation:
		return 400
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeBusiness:
		return 422
	case TypeExternal:
		return 502
	default:
		return 500
	}
}
