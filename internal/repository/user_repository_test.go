package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	t.Run("rejects blank username and password", func(t *testing.T) {
		users := NewUserRepository(newTestStore(t))

		_, err := users.Create("  ", "pw")
		assert.ErrorIs(t, err, ErrEmptyUsername)

		_, err = users.Create("alice", "   ")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("rejects duplicate username case-insensitively", func(t *testing.T) {
		users := NewUserRepository(newTestStore(t))

		_, err := users.Create("alice", "pw")
		require.NoError(t, err)

		_, err = users.Create("ALICE", "other")
		assert.ErrorIs(t, err, ErrDuplicateUser)
	})

	t.Run("new user is not an admin", func(t *testing.T) {
		users := NewUserRepository(newTestStore(t))

		created, err := users.Create("alice", "pw")
		require.NoError(t, err)

		got, err := users.GetByID(created.ID)
		require.NoError(t, err)
		assert.False(t, got.IsAdmin)
		assert.Equal(t, "alice", got.UsernameLC)
		assert.NotEmpty(t, got.CreatedAt)
	})
}

func TestUserRepository_VerifyLogin(t *testing.T) {
	users := NewUserRepository(newTestStore(t))
	created, err := users.Create("alice", "pw")
	require.NoError(t, err)

	t.Run("matches username case-insensitively", func(t *testing.T) {
		user, err := users.VerifyLogin("Alice", "pw")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		_, err := users.VerifyLogin("alice", "PW")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("rejects unknown username", func(t *testing.T) {
		_, err := users.VerifyLogin("bob", "pw")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	users := NewUserRepository(newTestStore(t))
	created, err := users.Create("alice", "pw")
	require.NoError(t, err)

	require.NoError(t, users.UpdateProfile(created.ID, "hello", "http://example.com/a.png"))

	got, err := users.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "http://example.com/a.png", got.AvatarURL)

	// Unknown id is a silent no-op.
	require.NoError(t, users.UpdateProfile("missing", "x", "y"))
}

func TestUserRepository_DisplayName(t *testing.T) {
	users := NewUserRepository(newTestStore(t))
	created, err := users.Create("alice", "pw")
	require.NoError(t, err)

	assert.Equal(t, "alice", users.DisplayName(created.ID))
	assert.Equal(t, UnknownUserLabel, users.DisplayName("missing"))
}
