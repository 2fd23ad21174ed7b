package maillog

import "github.com/maildeck/maildeck/pkg/errx"

var maillogErrors = errx.NewRegistry("MAILLOG")

var (
	ErrInvalidRequest = maillogErrors.Register("INVALID_REQUEST", errx.TypeValidation, 400, "Invalid send request")
	ErrQueueFailed    = maillogErrors.Register("QUEUE_FAILED", errx.TypeInternal, 500, "Failed to queue email")
	ErrDispatchFailed = maillogErrors.Register("DISPATCH_FAILED", errx.TypeInternal, 500, "Failed to send email")
	ErrQuotaExceeded  = maillogErrors.Register("QUOTA_EXCEEDED", errx.TypeBusiness, 429, "Daily send limit reached")
	ErrNotFound       = maillogErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "Email log not found")
)

// ErrInvalidRequestf builds a validation error with a reason detail.
func ErrInvalidRequestf(reason string) *errx.Error {
	return maillogErrors.New(ErrInvalidRequest).WithDetail("reason", reason)
}

// NewError instantiates a registered maillog error.
func NewError(code *errx.ErrorCode) *errx.Error {
	return maillogErrors.New(code)
}

// NewErrorWithCause instantiates a registered maillog error with a cause.
func NewErrorWithCause(code *errx.ErrorCode, cause error) *errx.Error {
	return maillogErrors.NewWithCause(code, cause)
}
