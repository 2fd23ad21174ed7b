package notifxses

import "github.com/maildeck/maildeck/pkg/errx"

var sesErrors = errx.NewRegistry("NOTIFX_SES")

var (
	ErrSendFailed             = sesErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SES rejected the message")
	ErrAttachmentsUnsupported = sesErrors.Register("ATTACHMENTS_UNSUPPORTED", errx.TypeValidation, 400, "SES provider does not support file attachments")
)
