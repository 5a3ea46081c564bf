package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterInvitedUserMessage carries an invite redemption. The invite code is
// verified before anything touches the database; role and email come from the
// invite's claims, never from the payload.
type RegisterInvitedUserMessage struct {
	Payload    RegistrationPayload `json:"payload"`
	UseHashid  bool
	OnResponse func(user *User)
}

func (e RegisterInvitedUserMessage) Type() string { return "user.register_invited" }

type RegisterInvitedUserHandler struct {
	repo    RepositoryManager
	manager *Manager
}

func NewRegisterInvitedUserHandler(repo RepositoryManager, manager *Manager) *RegisterInvitedUserHandler {
	return &RegisterInvitedUserHandler{repo: repo, manager: manager}
}

func (h *RegisterInvitedUserHandler) Execute(ctx context.Context, event RegisterInvitedUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during invited user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterInvitedUserHandler) execute(ctx context.Context, event RegisterInvitedUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	claims, err := VerifyInvite(event.Payload, h.manager)
	if err != nil {
		return err
	}

	user := &User{}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Payload.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = claims.UserEmail()
		user.FirstName = event.Payload.FirstName
		user.LastName = event.Payload.LastName
		user.Phone = event.Payload.Phone
		if role, ok := ParseRole(claims.Role()); ok {
			user.Role = role
		}
		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "invited user registration transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
