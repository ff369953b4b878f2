package config

import (
	"fmt"
	"time"
)

// AuthConfig holds token verification configuration.
type AuthConfig struct {
	// JWTSecret is the HMAC secret used to sign and verify access tokens.
	JWTSecret string
	// TokenTTL is the lifetime of issued access tokens.
	TokenTTL time.Duration
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		JWTSecret: GetEnv("JWT_SECRET", ""),
		TokenTTL:  GetEnvDuration("JWT_TOKEN_TTL", time.Hour),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be greater than 0")
	}
	return nil
}
