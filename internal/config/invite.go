package config

import (
	"fmt"
	"time"
)

// InviteConfig holds invite issuing configuration.
type InviteConfig struct {
	// TTL is how long an issued invite code stays redeemable.
	TTL time.Duration
}

// LoadInviteConfigFromEnv loads invite configuration from environment variables.
func LoadInviteConfigFromEnv() InviteConfig {
	return InviteConfig{
		TTL: GetEnvDuration("INVITE_TTL", 24*time.Hour),
	}
}

// Validate validates invite configuration.
func (c InviteConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("INVITE_TTL must be greater than 0")
	}
	return nil
}
