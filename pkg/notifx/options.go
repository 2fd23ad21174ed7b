package notifx

// SendOptions carries optional provider hints for one send operation.
type SendOptions struct {
	Tags map[string]string
}

// Option mutates SendOptions.
type Option func(*SendOptions)

// WithTags attaches metadata tags to the send. Providers that support
// tagging (SES) forward them; others ignore them.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) {
		o.Tags = tags
	}
}

// ApplySendOptions folds a list of options into a SendOptions value.
func ApplySendOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}
