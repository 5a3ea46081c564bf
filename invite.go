package auth

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// RegistrationPayload carries the data a user submits when redeeming an
// invite. Email is optional; when present it must match the email the invite
// was issued for. Case normalization is the caller's responsibility.
type RegistrationPayload struct {
	InviteCode string `json:"invite_code"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
}

// Validate will validate the payload
func (r RegistrationPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InviteCode, validation.Required),
		validation.Field(&r.Email, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
		validation.Field(&r.Phone, validation.By(validatePhone)),
	)
}

func validatePhone(value any) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	parsed, err := phonenumbers.Parse(phone, "US")
	if err != nil {
		return err
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return goerrors.New("invalid phone number", goerrors.CategoryValidation)
	}
	return nil
}

// VerifyInvite decodes the payload's invite code as a user-interaction token
// and enforces the invite rules: the code must verify, the invite must still
// be live, and the payload email (when present) must match the email the
// invite is bound to. On success the decoded claims are returned so the
// caller can materialize the account from role_id and email.
//
// Replay of a still-live invite is possible: invites are time-boxed but not
// single-use, there is no consumed-token ledger.
func VerifyInvite(payload RegistrationPayload, manager *Manager) (*TokenClaims, error) {
	claims, err := manager.DecodeUserInteractionToken(payload.InviteCode)
	if err != nil {
		msg := fmt.Sprintf("%s: %s", ErrInviteCodeInvalid.Message, payload.InviteCode)
		return nil, goerrors.Wrap(err, ErrInviteCodeInvalid.Category, msg).
			WithTextCode(ErrInviteCodeInvalid.TextCode).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"invite_code": payload.InviteCode})
	}

	// Decode already rejects dead tokens; re-checking here keeps the invite
	// rules self-contained even if the decode policy changes.
	if claims.IsExpired(time.Now()) {
		return nil, ErrInviteExpired
	}

	if payload.Email != "" && payload.Email != claims.UserEmail() {
		return nil, ErrInviteEmailMismatch
	}

	return claims, nil
}
