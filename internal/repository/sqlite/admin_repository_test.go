package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-auth/internal/models"
)

func newTestRepo(t *testing.T) *AdminRepository {
	t.Helper()

	repo, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return repo
}

func TestAdminRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, &models.AdminUser{
		Username: "admin",
		Role:     "owner",
		PINHash:  "hash",
		PINSalt:  "salt",
	})
	require.NoError(t, err)

	user, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "owner", user.Role)
	assert.Equal(t, "hash", user.PINHash)
	assert.Nil(t, user.LastLoginAt)
}

func TestAdminRepository_GetUnknownUser(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)

	_, err := repo.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminRepository_UpdatePIN(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.AdminUser{Username: "admin"}))

	require.NoError(t, repo.UpdatePIN(ctx, "admin", "newhash", "newsalt"))

	user, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "newhash", user.PINHash)
	assert.Equal(t, "newsalt", user.PINSalt)

	assert.ErrorIs(t, repo.UpdatePIN(ctx, "nobody", "h", "s"), ErrUserNotFound)
}

func TestAdminRepository_TouchLastLogin(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.AdminUser{Username: "admin"}))
	require.NoError(t, repo.TouchLastLogin(ctx, "admin"))

	user, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)

	assert.ErrorIs(t, repo.TouchLastLogin(ctx, "nobody"), ErrUserNotFound)
}
