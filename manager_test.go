package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/revline/go-auth"
)

func managerConfig() *auth.SimpleConfig {
	return &auth.SimpleConfig{
		AccessSigningKey:      "access-secret",
		RefreshSigningKey:     "refresh-secret",
		InteractionSigningKey: "interaction-secret",
		ResetSigningKey:       "reset-secret",
		Issuer:                "revline-test",
		Audience:              []string{"api"},
	}
}

func TestManagerIssueAndDecode(t *testing.T) {
	manager := auth.NewManager(managerConfig())

	t.Run("access token round trips claims", func(t *testing.T) {
		token, err := manager.CreateAccessToken(&auth.TokenClaims{
			UID:    "user-42",
			Email:  "driver@example.com",
			RoleID: "member",
		})
		assert.NoError(t, err)

		claims, err := manager.DecodeAccessToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-42", claims.UserID())
		assert.Equal(t, "driver@example.com", claims.UserEmail())
		assert.Equal(t, "member", claims.Role())
		assert.Equal(t, "revline-test", claims.RegisteredClaims.Issuer)
		assert.NotEmpty(t, claims.RegisteredClaims.ID, "issued tokens carry a jti")
		assert.True(t, claims.Expires().After(time.Now()))
	})

	t.Run("access TTL override extends the window", func(t *testing.T) {
		token, err := manager.CreateAccessToken(&auth.TokenClaims{UID: "user-42"}, 72*time.Hour)
		assert.NoError(t, err)

		claims, err := manager.DecodeAccessToken(token)
		assert.NoError(t, err)
		assert.True(t, claims.Expires().After(time.Now().Add(71*time.Hour)))
	})

	t.Run("refresh token gets the long window", func(t *testing.T) {
		token, err := manager.CreateRefreshToken(&auth.TokenClaims{UID: "user-42"})
		assert.NoError(t, err)

		claims, err := manager.DecodeRefreshToken(token)
		assert.NoError(t, err)
		assert.True(t, claims.Expires().After(time.Now().Add(6*24*time.Hour)))
	})

	t.Run("interaction token binds email and role", func(t *testing.T) {
		token, err := manager.CreateUserInteractionToken(&auth.TokenClaims{
			Email:  "invitee@example.com",
			RoleID: "admin",
		})
		assert.NoError(t, err)

		claims, err := manager.DecodeUserInteractionToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "invitee@example.com", claims.UserEmail())
		assert.Equal(t, "admin", claims.Role())
	})

	t.Run("reset token round trips", func(t *testing.T) {
		token, err := manager.CreateResetToken(&auth.TokenClaims{UID: "user-42"})
		assert.NoError(t, err)

		assert.NoError(t, manager.VerifyResetToken(token))
	})

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := manager.CreateAccessToken(nil)
		assert.Error(t, err)
	})
}

func TestManagerKindIsolation(t *testing.T) {
	manager := auth.NewManager(managerConfig())

	t.Run("refresh token fails access decode", func(t *testing.T) {
		token, err := manager.CreateRefreshToken(&auth.TokenClaims{UID: "user-42"})
		assert.NoError(t, err)

		claims, err := manager.DecodeAccessToken(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrTokenSignatureInvalid)
	})

	t.Run("access token fails interaction decode", func(t *testing.T) {
		token, err := manager.CreateAccessToken(&auth.TokenClaims{UID: "user-42"})
		assert.NoError(t, err)

		assert.ErrorIs(t, manager.VerifyUserInteractionToken(token), auth.ErrTokenSignatureInvalid)
	})

	t.Run("interaction token fails reset decode", func(t *testing.T) {
		token, err := manager.CreateUserInteractionToken(&auth.TokenClaims{Email: "a@b.co"})
		assert.NoError(t, err)

		assert.ErrorIs(t, manager.VerifyResetToken(token), auth.ErrTokenSignatureInvalid)
	})
}

func TestManagerExpiry(t *testing.T) {
	cfg := managerConfig()
	manager := auth.NewManager(cfg)

	t.Run("expired token fails with TokenExpired even with a valid signature", func(t *testing.T) {
		now := time.Now()
		claims := &auth.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-expired",
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			},
			UID: "user-expired",
		}

		token, err := auth.EncodeClaims(claims, []byte(cfg.AccessSigningKey), jwt.SigningMethodHS256)
		assert.NoError(t, err)

		decoded, err := manager.DecodeAccessToken(token)
		assert.Nil(t, decoded)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("token without exp is malformed", func(t *testing.T) {
		token, err := auth.EncodeClaims(&auth.TokenClaims{UID: "user-1"}, []byte(cfg.AccessSigningKey), jwt.SigningMethodHS256)
		assert.NoError(t, err)

		_, err = manager.DecodeAccessToken(token)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("verify wrappers surface the same errors", func(t *testing.T) {
		assert.ErrorIs(t, manager.VerifyAccessToken("garbage"), auth.ErrTokenMalformed)
		assert.NoError(t, func() error {
			token, err := manager.CreateAccessToken(&auth.TokenClaims{UID: "user-42"})
			assert.NoError(t, err)
			return manager.VerifyAccessToken(token)
		}())
	})
}
