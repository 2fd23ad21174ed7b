package config

// MailConfig configures the outbound mail transport.
type MailConfig struct {
	// Provider selects the transport: "smtp", "ses" or "console".
	Provider string

	// SMTP relay settings.
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	SkipTLSVerify bool

	// SES settings.
	AWSRegion string

	// Sender identity applied to every envelope.
	FromAddress string
	FromName    string

	// DailyLimit caps accepted send requests per calendar day. Zero
	// disables the quota.
	DailyLimit int
}

func loadMailConfig() MailConfig {
	return MailConfig{
		Provider:      getEnv("MAIL_PROVIDER", "smtp"),
		SMTPHost:      getEnv("MAIL_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("MAIL_PORT", 587),
		SMTPUser:      getEnv("MAIL_USER", ""),
		SMTPPassword:  getEnv("MAIL_PASSWORD", ""),
		SkipTLSVerify: getEnvBool("MAIL_SKIP_TLS_VERIFY", false),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		FromAddress:   getEnv("MAIL_FROM_ADDRESS", getEnv("MAIL_USER", "noreply@localhost")),
		FromName:      getEnv("MAIL_FROM_NAME", ""),
		DailyLimit:    getEnvInt("MAIL_DAILY_LIMIT", 0),
	}
}
