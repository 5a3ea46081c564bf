package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// EncodeClaims signs the given claims with the provided secret and HMAC
// signing method, returning a compact URL-safe token string.
func EncodeClaims(claims *TokenClaims, secret []byte, method jwt.SigningMethod) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	if len(secret) == 0 {
		return "", errors.New("signing secret must not be empty", errors.CategoryInternal)
	}
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	token := jwt.NewWithClaims(method, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// DecodeClaims parses a token string and verifies its signature against the
// given secret. It performs no expiry validation: different token kinds apply
// different expiry policies on top of the same codec, so that check belongs
// to the Manager.
func DecodeClaims(tokenString string, secret []byte) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
