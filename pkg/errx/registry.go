package errx

import "fmt"

// ErrorCode is a registered, module-scoped error definition.
type ErrorCode struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry namespaces error codes for one module. Registration happens at
// package init time, so no locking is needed afterwards.
type Registry struct {
	prefix string
}

// NewRegistry creates a registry whose codes are prefixed with prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix}
}

// Register defines a new error code under the registry's prefix.
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) *ErrorCode {
	return &ErrorCode{
		Code:       fmt.Sprintf("%s_%s", r.prefix, code),
		Type:       errType,
		HTTPStatus: httpStatus,
		Message:    message,
	}
}

// New instantiates an error from a registered code.
func (r *Registry) New(code *ErrorCode) *Error {
	return &Error{
		Code:       code.Code,
		Message:    code.Message,
		Type:       code.Type,
		HTTPStatus: code.HTTPStatus,
	}
}

// NewWithMessage instantiates an error from a code with a custom message.
func (r *Registry) NewWithMessage(code *ErrorCode, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// NewWithCause instantiates an error from a code wrapping an underlying cause.
func (r *Registry) NewWithCause(code *ErrorCode, cause error) *Error {
	e := r.New(code)
	e.Err = cause
	return e
}
