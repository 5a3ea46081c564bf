package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced alongside auth errors so API clients can branch
// without parsing messages.
const (
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
	TextCodeTokenBadSig      = "TOKEN_SIGNATURE_INVALID"
	TextCodeInviteInvalid    = "INVITE_CODE_INVALID"
	TextCodeInviteExpired    = "INVITE_EXPIRED"
	TextCodeInviteEmail      = "INVITE_EMAIL_MISMATCH"
	TextCodeUnauthenticated  = "UNAUTHENTICATED"
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
)

// ErrTokenExpired is returned when a structurally valid, correctly signed
// token is past its expiration.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when the signature does not verify
// against the expected secret. A token signed with the secret of a different
// kind fails with this error, never with ErrTokenExpired.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSig).
	WithCode(errors.CodeUnauthorized)

// ErrInviteCodeInvalid is returned when an invite code fails to decode as a
// user-interaction token. VerifyInvite attaches the offending code as
// metadata so the user-facing message can echo it back.
var ErrInviteCodeInvalid = errors.New("invalid invite code", errors.CategoryAuth).
	WithTextCode(TextCodeInviteInvalid).
	WithCode(errors.CodeBadRequest)

// ErrInviteExpired is returned when the invite's expiration has passed.
var ErrInviteExpired = errors.New("invite has expired", errors.CategoryAuth).
	WithTextCode(TextCodeInviteExpired).
	WithCode(errors.CodeBadRequest)

// ErrInviteEmailMismatch is returned when the registration email does not
// match the email the invite was issued for.
var ErrInviteEmailMismatch = errors.New("invite was issued for a different email", errors.CategoryAuth).
	WithTextCode(TextCodeInviteEmail).
	WithCode(errors.CodeBadRequest)

// ErrUnauthenticated is the single outward-facing failure for anything that
// goes wrong while resolving the current user: missing token, bad signature,
// expired token, unknown user. The underlying cause is logged, never
// returned, so callers cannot distinguish a forged token from an expired one.
var ErrUnauthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString is returned when a required string input is empty.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryBadInput)

// ErrMismatchedHashAndPassword is returned when a password does not match
// its stored hash.
var ErrMismatchedHashAndPassword = errors.New("credentials do not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens, including legacy
// string-matched errors coming out of JWT middleware.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for structurally invalid tokens.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
