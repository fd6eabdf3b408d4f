package email

import (
	"time"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

// Config holds email service configuration
type Config struct {
	Enabled bool
	From    string

	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int

	// ClinicName signs outgoing messages.
	ClinicName string
}

func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

func FromCentralConfig(c *config.Config) Config {
	port := c.Email.SMTP.Port
	if port == 0 {
		port = 587
	}
	return Config{
		Enabled:            c.Email.Enabled,
		From:               c.Email.From,
		SMTPHost:           c.Email.SMTP.Host,
		SMTPPort:           port,
		SMTPUsername:       c.Email.SMTP.Username,
		SMTPPassword:       c.Email.SMTP.Password,
		SMTPUseTLS:         c.Email.SMTP.UseTLS,
		SMTPTimeoutSeconds: c.Email.SMTP.TimeoutSeconds,
		ClinicName:         c.Clinic.Name,
	}
}
