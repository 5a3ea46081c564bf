package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/revline/go-auth"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    user_role TEXT NOT NULL,
    first_name TEXT,
    last_name TEXT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    phone_number TEXT,
    password_hash TEXT,
    is_email_verified BOOLEAN DEFAULT FALSE,
    metadata TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP,
    deleted_at TIMESTAMP
);`

func setupUsersRepo(t *testing.T) (auth.Users, func()) {
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

	return auth.NewUsersRepository(bunDB), cleanup
}

func TestUsersRepositoryRegisterAndFind(t *testing.T) {
	repo, cleanup := setupUsersRepo(t)
	defer cleanup()

	ctx := context.Background()

	created, err := repo.Register(ctx, &auth.User{
		Email:     "pepe.rone@example.com",
		FirstName: "Pepe",
		LastName:  "Rone",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID, "register assigns an id")
	assert.Equal(t, "pepe.rone", created.Username, "username defaults to the email local part")
	assert.Equal(t, auth.RoleMember, created.Role, "role defaults to member")

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "pepe.rone@example.com", found.Email)
	})

	t.Run("find by malformed id misses", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "not-a-uuid")
		assert.Error(t, err)
		assert.Nil(t, found)
	})

	t.Run("find by unknown id misses", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.NewString())
		assert.Error(t, err)
		assert.Nil(t, found)
	})

	t.Run("gets by email identifier", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, "pepe.rone@example.com")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("gets by username identifier", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, "pepe.rone")
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("gets by uuid identifier", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, created.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("unknown identifier misses", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, "nobody@example.com")
		assert.Error(t, err)
		assert.Nil(t, found)
	})
}

func TestUsersRepositoryBackedResolver(t *testing.T) {
	repo, cleanup := setupUsersRepo(t)
	defer cleanup()

	ctx := context.Background()
	manager := auth.NewManager(managerConfig())

	user, err := repo.Register(ctx, &auth.User{Email: "driver@example.com"})
	require.NoError(t, err)

	resolver := auth.NewCurrentUserResolver(manager, repo)

	token, err := manager.CreateAccessToken(&auth.TokenClaims{UID: user.ID.String()})
	require.NoError(t, err)

	resolved, err := resolver.Resolve(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// a token for a user that was never stored resolves to nothing
	ghost, err := manager.CreateAccessToken(&auth.TokenClaims{UID: uuid.NewString()})
	require.NoError(t, err)

	resolved, err = resolver.Resolve(ctx, ghost)
	assert.Nil(t, resolved)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}
