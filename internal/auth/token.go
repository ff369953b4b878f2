// Package auth provides bearer token issuing and verification.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/taskhive/internal/config"
)

var (
	// ErrInvalidToken indicates the token is missing, malformed, expired or
	// carries an incomplete identity.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the authenticated principal extracted from a bearer token.
// Both fields are mandatory: a token missing either is rejected.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier verifies a bearer credential and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// JWTManager issues and verifies HS256 access tokens.
type JWTManager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewJWTManager creates a manager from auth configuration.
func NewJWTManager(cfg config.AuthConfig) *JWTManager {
	return &JWTManager{
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: cfg.TokenTTL,
	}
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue mints a signed access token for the given identity.
func (m *JWTManager) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and returns the identity it carries.
// Tokens without both a subject and an email are rejected.
func (m *JWTManager) Verify(tokenStr string) (*Identity, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
