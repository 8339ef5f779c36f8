package jwtx

import (
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default lifetimes, overridable through configuration.
const (
	DefaultAccessTokenTTL  = 5 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// TokenTypeAccess is the only token_type this package mints. Refresh tokens
// are opaque and never travel as JWTs.
const TokenTypeAccess = "access"

// Claims are the access-token claims shared by the issuer and the gatekeeper.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType guards against other HS256 tokens signed with the same secret.
	TokenType string `json:"token_type"`

	// SID is the login session, stable across refresh rotation.
	SID string `json:"sid,omitempty"`

	// Scopes granted to the bearer, e.g. "clients:read clients:write".
	Scopes []string `json:"scopes,omitempty"`

	Username string `json:"username,omitempty"`
}

// NewAccessClaims builds access claims valid from now for ttl.
func NewAccessClaims(
	subject, sid, username string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenType: TokenTypeAccess,
		SID:       sid,
		Scopes:    scopes,
		Username:  username,
	}
}

// NewJTI returns a random 32 character hex identifier for the "jti" claim.
func NewJTI() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures now is within [nbf, exp].
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway allows leeway of clock skew on both ends.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateTokenType rejects anything that is not an access token.
func (c *Claims) ValidateTokenType() error {
	if c.TokenType != TokenTypeAccess {
		return ErrTokenType
	}
	return nil
}
