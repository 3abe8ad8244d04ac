package authgate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authgate "github.com/goliatone/go-auth-gateway"
)

func TestHashPassword(t *testing.T) {
	t.Run("same plaintext hashes to different values that both verify", func(t *testing.T) {
		first, err := authgate.HashPassword("s3cret-password")
		require.NoError(t, err)

		second, err := authgate.HashPassword("s3cret-password")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.NoError(t, authgate.ComparePasswordAndHash("s3cret-password", first))
		assert.NoError(t, authgate.ComparePasswordAndHash("s3cret-password", second))
	})

	t.Run("empty password is rejected before hashing", func(t *testing.T) {
		hash, err := authgate.HashPassword("")
		assert.Empty(t, hash)
		assert.ErrorIs(t, err, authgate.ErrNoEmptyString)
	})
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := authgate.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("wrong password fails", func(t *testing.T) {
		err := authgate.ComparePasswordAndHash("incorrect horse", hash)
		assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
	})

	t.Run("garbage hash fails", func(t *testing.T) {
		err := authgate.ComparePasswordAndHash("correct horse battery staple", "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}

func TestRandomPasswordHash(t *testing.T) {
	hash := authgate.RandomPasswordHash()
	assert.NotEmpty(t, hash)

	// nothing should verify against a placeholder hash
	assert.Error(t, authgate.ComparePasswordAndHash("", hash))
	assert.Error(t, authgate.ComparePasswordAndHash("guess", hash))
}
