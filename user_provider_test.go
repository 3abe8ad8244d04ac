package authgate_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authgate "github.com/goliatone/go-auth-gateway"
)

type stubUserStore struct {
	users    map[string]*authgate.User
	trackErr error
	tracked  []int64
}

func (s *stubUserStore) GetByUsername(ctx context.Context, username string) (*authgate.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, authgate.ErrIdentityNotFound
}

func (s *stubUserStore) GetByID(ctx context.Context, id int64) (*authgate.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, authgate.ErrIdentityNotFound
}

func (s *stubUserStore) TrackSuccessfulLogin(ctx context.Context, user *authgate.User) error {
	if s.trackErr != nil {
		return s.trackErr
	}
	s.tracked = append(s.tracked, user.ID)
	return nil
}

func newStubStore(t *testing.T) *stubUserStore {
	t.Helper()

	hash, err := authgate.HashPassword("password123")
	require.NoError(t, err)

	return &stubUserStore{
		users: map[string]*authgate.User{
			"testuser": {
				ID:           42,
				Username:     "testuser",
				PasswordHash: hash,
				Role:         authgate.RoleAdmin,
			},
		},
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials resolve the identity", func(t *testing.T) {
		store := newStubStore(t)
		provider := authgate.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "testuser", "password123")

		require.NoError(t, err)
		assert.Equal(t, int64(42), identity.ID())
		assert.Equal(t, "testuser", identity.Username())
		assert.Equal(t, "admin", identity.Role())
		assert.Equal(t, []int64{42}, store.tracked)
	})

	t.Run("unknown user collapses into a password mismatch", func(t *testing.T) {
		provider := authgate.NewUserProvider(newStubStore(t))

		identity, err := provider.VerifyIdentity(ctx, "nobody", "password123")

		assert.Nil(t, identity)
		assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
	})

	t.Run("wrong password reports the same mismatch", func(t *testing.T) {
		provider := authgate.NewUserProvider(newStubStore(t))

		unknownIdentity, unknownErr := provider.VerifyIdentity(ctx, "nobody", "password123")
		_, wrongPwdErr := provider.VerifyIdentity(ctx, "testuser", "wrongpassword")

		assert.Nil(t, unknownIdentity)
		assert.Equal(t, unknownErr, wrongPwdErr)
	})

	t.Run("tracking failure does not fail the login", func(t *testing.T) {
		store := newStubStore(t)
		store.trackErr = errors.New("db went away", errors.CategoryInternal)
		provider := authgate.NewUserProvider(store)

		identity, err := provider.VerifyIdentity(ctx, "testuser", "password123")

		assert.NoError(t, err)
		assert.NotNil(t, identity)
	})
}

func TestUserProvider_FindIdentityByID(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an existing user", func(t *testing.T) {
		provider := authgate.NewUserProvider(newStubStore(t))

		identity, err := provider.FindIdentityByID(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, "testuser", identity.Username())
	})

	t.Run("deleted subject reports gone", func(t *testing.T) {
		provider := authgate.NewUserProvider(newStubStore(t))

		identity, err := provider.FindIdentityByID(ctx, 404)

		assert.Nil(t, identity)
		assert.ErrorIs(t, err, authgate.ErrIdentityGone)
	})
}
