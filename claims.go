package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the claim set carried by every token this package issues,
// regardless of kind. The kind itself is never stored in the payload; it is
// implied by which secret verifies the signature.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID      string         `json:"uid,omitempty"`
	Email    string         `json:"email,omitempty"`
	RoleID   string         `json:"role_id,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// UserID returns the user identifier, falling back to the subject claim.
func (c *TokenClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// UserUUID parses the user identifier as a UUID.
func (c *TokenClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// UserEmail returns the email the token is bound to, if any.
func (c *TokenClaims) UserEmail() string {
	return c.Email
}

// Role returns the role identifier carried by the token, if any.
func (c *TokenClaims) Role() string {
	return c.RoleID
}

// Expires returns the expiration time, zero if the claim is absent.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issuance time, zero if the claim is absent.
func (c *TokenClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// IsExpired reports whether the token is dead at the given instant.
// A missing exp claim counts as expired; we never issue tokens without one.
func (c *TokenClaims) IsExpired(now time.Time) bool {
	if c.RegisteredClaims.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.RegisteredClaims.ExpiresAt.Time)
}

// AddMetadata appends information to the metadata claim.
func (c *TokenClaims) AddMetadata(key string, val any) *TokenClaims {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = val
	return c
}

// ensureTokenID assigns a jti when the claims do not carry one yet, so every
// issued token is individually identifiable in logs.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
