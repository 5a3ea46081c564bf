package auth

import "time"

// Config holds auth options. Each token kind signs with its own secret so a
// leaked secret of one kind cannot forge tokens of another.
type Config interface {
	GetAccessSigningKey() string
	GetRefreshSigningKey() string
	GetInteractionSigningKey() string
	GetResetSigningKey() string
	GetSigningMethod() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetInteractionTokenTTL() time.Duration
	GetResetTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// Default validity windows. Access tokens are short lived; refresh tokens
// carry the long window that enables access/refresh rotation.
const (
	DefaultAccessTokenTTL      = 30 * time.Minute
	DefaultRefreshTokenTTL     = 7 * 24 * time.Hour
	DefaultInteractionTokenTTL = 48 * time.Hour
	DefaultResetTokenTTL       = 1 * time.Hour
)

// SimpleConfig is a literal Config implementation for embedding apps and
// tests.
type SimpleConfig struct {
	AccessSigningKey      string
	RefreshSigningKey     string
	InteractionSigningKey string
	ResetSigningKey       string
	SigningMethod         string
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	InteractionTokenTTL   time.Duration
	ResetTokenTTL         time.Duration
	Issuer                string
	Audience              []string
	ContextKey            string
	TokenLookup           string
	AuthScheme            string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetAccessSigningKey() string      { return c.AccessSigningKey }
func (c *SimpleConfig) GetRefreshSigningKey() string     { return c.RefreshSigningKey }
func (c *SimpleConfig) GetInteractionSigningKey() string { return c.InteractionSigningKey }
func (c *SimpleConfig) GetResetSigningKey() string       { return c.ResetSigningKey }

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetAccessTokenTTL() time.Duration {
	if c.AccessTokenTTL <= 0 {
		return DefaultAccessTokenTTL
	}
	return c.AccessTokenTTL
}

func (c *SimpleConfig) GetRefreshTokenTTL() time.Duration {
	if c.RefreshTokenTTL <= 0 {
		return DefaultRefreshTokenTTL
	}
	return c.RefreshTokenTTL
}

func (c *SimpleConfig) GetInteractionTokenTTL() time.Duration {
	if c.InteractionTokenTTL <= 0 {
		return DefaultInteractionTokenTTL
	}
	return c.InteractionTokenTTL
}

func (c *SimpleConfig) GetResetTokenTTL() time.Duration {
	if c.ResetTokenTTL <= 0 {
		return DefaultResetTokenTTL
	}
	return c.ResetTokenTTL
}

func (c *SimpleConfig) GetIssuer() string     { return c.Issuer }
func (c *SimpleConfig) GetAudience() []string { return c.Audience }

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization,cookie:" + c.GetContextKey()
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}
