package authgate_test

import (
	"context"
	"database/sql"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	authgate "github.com/goliatone/go-auth-gateway"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	migrations, err := fs.Sub(authgate.GetMigrationsFS(), "data/sql/migrations")
	require.NoError(t, err)

	entries, err := fs.ReadDir(migrations, ".")
	require.NoError(t, err)

	ctx := context.Background()
	for _, entry := range entries {
		stmt, err := fs.ReadFile(migrations, entry.Name())
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, string(stmt))
		require.NoError(t, err)
	}

	_, err = db.NewDelete().Model((*authgate.User)(nil)).Where("1 = 1").ForceDelete().Exec(ctx)
	require.NoError(t, err)

	return db
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	repo := authgate.NewUsersRepository(newTestDB(t))

	t.Run("register assigns an id", func(t *testing.T) {
		user, err := repo.Register(ctx, &authgate.User{
			Username:     "testuser",
			PasswordHash: "hash-value",
			Role:         authgate.RoleMember,
		})

		require.NoError(t, err)
		assert.NotZero(t, user.ID)
	})

	t.Run("get by username", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "testuser")

		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, "hash-value", user.PasswordHash)
	})

	t.Run("get by id", func(t *testing.T) {
		existing, err := repo.GetByUsername(ctx, "testuser")
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.Username, user.Username)
	})

	t.Run("missing user reports not found", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, authgate.ErrIdentityNotFound)

		_, err = repo.GetByID(ctx, 404404)
		assert.ErrorIs(t, err, authgate.ErrIdentityNotFound)
	})

	t.Run("get or register never overwrites", func(t *testing.T) {
		existing, err := repo.GetOrRegister(ctx, &authgate.User{
			Username:     "testuser",
			PasswordHash: "different-hash",
			Role:         authgate.RoleAdmin,
		})

		require.NoError(t, err)
		assert.Equal(t, "hash-value", existing.PasswordHash)
		assert.Equal(t, authgate.RoleMember, existing.Role)

		fresh, err := repo.GetOrRegister(ctx, &authgate.User{
			Username:     "seconduser",
			PasswordHash: "second-hash",
			Role:         authgate.RoleGuest,
		})
		require.NoError(t, err)
		assert.NotZero(t, fresh.ID)
	})

	t.Run("track successful login stamps the record", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "testuser")
		require.NoError(t, err)
		require.Nil(t, user.LoggedInAt)

		require.NoError(t, repo.TrackSuccessfulLogin(ctx, user))

		updated, err := repo.GetByUsername(ctx, "testuser")
		require.NoError(t, err)
		assert.NotNil(t, updated.LoggedInAt)
	})
}
