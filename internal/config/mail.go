package config

import (
	"fmt"
	"time"
)

// MailConfig holds outbound mail configuration.
type MailConfig struct {
	// Enabled switches outbound mail on. When false a no-op mailer is used.
	Enabled bool
	// Host is the SMTP server host.
	Host string
	// Port is the SMTP server port.
	Port string
	// From is the sender address.
	From string
	// Username is the SMTP auth username (empty disables auth).
	Username string
	// Password is the SMTP auth password.
	Password string
	// SendTimeout bounds a single delivery attempt.
	SendTimeout time.Duration
}

// LoadMailConfigFromEnv loads mail configuration from environment variables.
func LoadMailConfigFromEnv() MailConfig {
	return MailConfig{
		Enabled:     GetEnvBool("MAIL_ENABLED", false),
		Host:        GetEnv("MAIL_HOST", "localhost"),
		Port:        GetEnv("MAIL_PORT", "587"),
		From:        GetEnv("MAIL_FROM", "no-reply@taskhive.local"),
		Username:    GetEnv("MAIL_USERNAME", ""),
		Password:    GetEnv("MAIL_PASSWORD", ""),
		SendTimeout: GetEnvDuration("MAIL_SEND_TIMEOUT", 10*time.Second),
	}
}

// Validate validates mail configuration.
func (c MailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("MAIL_HOST must be set when mail is enabled")
	}
	if c.Port == "" {
		return fmt.Errorf("MAIL_PORT must be set when mail is enabled")
	}
	if c.From == "" {
		return fmt.Errorf("MAIL_FROM must be set when mail is enabled")
	}
	return nil
}

// Address returns the host:port SMTP address.
func (c MailConfig) Address() string {
	return c.Host + ":" + c.Port
}
