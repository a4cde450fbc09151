package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims mirrors the access token issued by the travel API
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// ExpiresIn returns the remaining lifetime, zero when expired or unbounded
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the token carries an expiry in the past
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.Time.After(now)
}

// ParseClaims decodes a token without verifying its signature. The client does
// not hold the signing key; the server remains the authority and answers 401.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	return claims, nil
}

// Claims decodes the stored credential
func (a *Context) Claims(ctx context.Context) (*Claims, error) {
	token := a.Credential(ctx)
	if token == "" {
		return nil, ErrNoCredential
	}
	return ParseClaims(token)
}
