package notifxsmtp

import "github.com/maildeck/maildeck/pkg/errx"

var smtpErrors = errx.NewRegistry("NOTIFX_SMTP")

var (
	ErrSendFailed = smtpErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SMTP relay rejected the message")
	ErrAttachment = smtpErrors.Register("ATTACHMENT", errx.TypeValidation, 400, "Attachment file is not readable")
)
