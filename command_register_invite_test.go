package auth_test

import (
	"context"
	"database/sql"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/revline/go-auth"
)

func setupRepoManager(t *testing.T) (auth.RepositoryManager, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	cleanup := func() {
		_ = bunDB.Close()
		_ = db.Close()
	}

	return auth.NewRepositoryManager(bunDB), cleanup
}

func TestRegisterInvitedUser(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	require.NoError(t, repo.Validate())

	ctx := context.Background()
	manager := auth.NewManager(managerConfig())
	handler := auth.NewRegisterInvitedUserHandler(repo, manager)

	invite, err := manager.CreateUserInteractionToken(&auth.TokenClaims{
		Email:  "pepe.rone@example.com",
		RoleID: auth.RoleAdmin,
	})
	require.NoError(t, err)

	var registered *auth.User

	msg := auth.RegisterInvitedUserMessage{
		Payload: auth.RegistrationPayload{
			InviteCode: invite,
			Email:      "pepe.rone@example.com",
			Password:   "secret password 123",
			FirstName:  "Pepe",
			LastName:   "Rone",
		},
		OnResponse: func(user *auth.User) {
			registered = user
		},
	}

	require.NoError(t, handler.Execute(ctx, msg))
	require.NotNil(t, registered)

	// identity attributes come from the invite, not the payload
	assert.Equal(t, "pepe.rone@example.com", registered.Email)
	assert.Equal(t, auth.RoleAdmin, registered.Role)
	assert.Equal(t, "Pepe", registered.FirstName)
	assert.Equal(t, "Rone", registered.LastName)

	assert.NoError(t, auth.ComparePasswordAndHash("secret password 123", registered.PasswordHash))
	assert.Error(t, auth.ComparePasswordAndHash("wrong password!!", registered.PasswordHash))

	stored, err := repo.Users().FindByID(ctx, registered.ID.String())
	require.NoError(t, err)
	assert.Equal(t, registered.Email, stored.Email)
}

func TestRegisterInvitedUserRejectsBadInput(t *testing.T) {
	repo, cleanup := setupRepoManager(t)
	defer cleanup()

	ctx := context.Background()
	manager := auth.NewManager(managerConfig())
	handler := auth.NewRegisterInvitedUserHandler(repo, manager)

	t.Run("invalid payload", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterInvitedUserMessage{
			Payload: auth.RegistrationPayload{
				InviteCode: "anything",
				Password:   "short",
			},
		})
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, goerrors.CategoryValidation, richErr.Category)
	})

	t.Run("garbage invite code", func(t *testing.T) {
		err := handler.Execute(ctx, auth.RegisterInvitedUserMessage{
			Payload: auth.RegistrationPayload{
				InviteCode: "not-a-token",
				Password:   "secret password 123",
			},
		})
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, auth.TextCodeInviteInvalid, richErr.TextCode)
	})

	t.Run("email mismatch", func(t *testing.T) {
		invite, err := manager.CreateUserInteractionToken(&auth.TokenClaims{
			Email: "invited@example.com",
		})
		require.NoError(t, err)

		err = handler.Execute(ctx, auth.RegisterInvitedUserMessage{
			Payload: auth.RegistrationPayload{
				InviteCode: invite,
				Email:      "impostor@example.com",
				Password:   "secret password 123",
			},
		})
		assert.ErrorIs(t, err, auth.ErrInviteEmailMismatch)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		err := handler.Execute(cancelled, auth.RegisterInvitedUserMessage{
			Payload: auth.RegistrationPayload{
				InviteCode: "anything",
				Password:   "secret password 123",
			},
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
