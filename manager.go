package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenKind names the four credential kinds the Manager issues. The kind is
// never encoded in the payload; it is implied by which secret and validity
// window were used.
type TokenKind string

const (
	TokenKindAccess      TokenKind = "access"
	TokenKindRefresh     TokenKind = "refresh"
	TokenKindInteraction TokenKind = "interaction"
	TokenKindReset       TokenKind = "reset"
)

// Manager issues and verifies tokens of every kind. It is stateless and safe
// for concurrent use.
type Manager struct {
	cfg    Config
	method jwt.SigningMethod
	logger Logger
}

// NewManager returns a Manager configured with per-kind secrets and TTLs.
func NewManager(cfg Config) *Manager {
	method := jwt.GetSigningMethod(cfg.GetSigningMethod())
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	return &Manager{
		cfg:    cfg,
		method: method,
		logger: defLogger{},
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

func (m *Manager) secretFor(kind TokenKind) []byte {
	switch kind {
	case TokenKindAccess:
		return []byte(m.cfg.GetAccessSigningKey())
	case TokenKindRefresh:
		return []byte(m.cfg.GetRefreshSigningKey())
	case TokenKindInteraction:
		return []byte(m.cfg.GetInteractionSigningKey())
	case TokenKindReset:
		return []byte(m.cfg.GetResetSigningKey())
	default:
		return nil
	}
}

func (m *Manager) ttlFor(kind TokenKind) time.Duration {
	switch kind {
	case TokenKindAccess:
		return m.cfg.GetAccessTokenTTL()
	case TokenKindRefresh:
		return m.cfg.GetRefreshTokenTTL()
	case TokenKindInteraction:
		return m.cfg.GetInteractionTokenTTL()
	case TokenKindReset:
		return m.cfg.GetResetTokenTTL()
	default:
		return 0
	}
}

// issue stamps registered claims onto a copy of the provided claim set and
// signs it with the kind's secret.
func (m *Manager) issue(kind TokenKind, claims *TokenClaims, ttl time.Duration) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryBadInput)
	}
	if ttl <= 0 {
		return "", errors.New("token TTL must be positive", errors.CategoryBadInput).
			WithMetadata(map[string]any{"kind": string(kind)})
	}

	now := time.Now()
	stamped := *claims
	stamped.RegisteredClaims.Issuer = m.cfg.GetIssuer()
	stamped.RegisteredClaims.Audience = jwt.ClaimStrings(m.cfg.GetAudience())
	stamped.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	stamped.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if stamped.RegisteredClaims.Subject == "" {
		stamped.RegisteredClaims.Subject = claims.UID
	}

	ensureTokenID(&stamped.RegisteredClaims)

	return EncodeClaims(&stamped, m.secretFor(kind), m.method)
}

// decode verifies signature and structure via the codec, then applies the
// expiry policy. Expiry is checked here, not in the codec, so a valid
// signature on a dead token still fails with ErrTokenExpired.
func (m *Manager) decode(kind TokenKind, tokenString string) (*TokenClaims, error) {
	claims, err := DecodeClaims(tokenString, m.secretFor(kind))
	if err != nil {
		return nil, err
	}

	if claims.RegisteredClaims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}

	if claims.IsExpired(time.Now()) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// CreateAccessToken issues a short-lived access token. An optional TTL
// override supports extended sessions.
func (m *Manager) CreateAccessToken(claims *TokenClaims, ttlOverride ...time.Duration) (string, error) {
	ttl := m.ttlFor(TokenKindAccess)
	if len(ttlOverride) > 0 && ttlOverride[0] > 0 {
		ttl = ttlOverride[0]
	}
	return m.issue(TokenKindAccess, claims, ttl)
}

// CreateRefreshToken issues a long-lived refresh token used to reissue
// access tokens without re-authentication.
func (m *Manager) CreateRefreshToken(claims *TokenClaims) (string, error) {
	return m.issue(TokenKindRefresh, claims, m.ttlFor(TokenKindRefresh))
}

// CreateUserInteractionToken issues an invite token bound to the email and
// role carried in the claims.
func (m *Manager) CreateUserInteractionToken(claims *TokenClaims) (string, error) {
	return m.issue(TokenKindInteraction, claims, m.ttlFor(TokenKindInteraction))
}

// CreateResetToken issues a password-reset token.
func (m *Manager) CreateResetToken(claims *TokenClaims) (string, error) {
	return m.issue(TokenKindReset, claims, m.ttlFor(TokenKindReset))
}

// DecodeAccessToken verifies an access token and returns its claims.
func (m *Manager) DecodeAccessToken(tokenString string) (*TokenClaims, error) {
	return m.decode(TokenKindAccess, tokenString)
}

// DecodeRefreshToken verifies a refresh token and returns its claims.
func (m *Manager) DecodeRefreshToken(tokenString string) (*TokenClaims, error) {
	return m.decode(TokenKindRefresh, tokenString)
}

// DecodeUserInteractionToken verifies an invite token and returns its claims.
func (m *Manager) DecodeUserInteractionToken(tokenString string) (*TokenClaims, error) {
	return m.decode(TokenKindInteraction, tokenString)
}

// DecodeResetToken verifies a password-reset token and returns its claims.
func (m *Manager) DecodeResetToken(tokenString string) (*TokenClaims, error) {
	return m.decode(TokenKindReset, tokenString)
}

// VerifyAccessToken checks validity only, discarding the claims.
func (m *Manager) VerifyAccessToken(tokenString string) error {
	_, err := m.DecodeAccessToken(tokenString)
	return err
}

// VerifyRefreshToken checks validity only, discarding the claims.
func (m *Manager) VerifyRefreshToken(tokenString string) error {
	_, err := m.DecodeRefreshToken(tokenString)
	return err
}

// VerifyUserInteractionToken checks validity only, discarding the claims.
func (m *Manager) VerifyUserInteractionToken(tokenString string) error {
	_, err := m.DecodeUserInteractionToken(tokenString)
	return err
}

// VerifyResetToken checks validity only, discarding the claims.
func (m *Manager) VerifyResetToken(tokenString string) error {
	_, err := m.DecodeResetToken(tokenString)
	return err
}
