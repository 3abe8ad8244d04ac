package authgate_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authgate "github.com/goliatone/go-auth-gateway"
)

func newTestController(auther authgate.Authenticator) *authgate.AuthController {
	return authgate.NewAuthController(
		authgate.WithControllerAuthenticator(auther),
	)
}

func TestNewAuthController(t *testing.T) {
	t.Run("panics without an authenticator", func(t *testing.T) {
		assert.Panics(t, func() {
			authgate.NewAuthController()
		})
	})

	t.Run("default routes", func(t *testing.T) {
		controller := newTestController(new(MockAuthenticator))
		assert.Equal(t, "/api/login", controller.Routes.Login)
		assert.Equal(t, "/api/logout", controller.Routes.Logout)
	})
}

func TestLoginPost(t *testing.T) {
	t.Run("valid credentials return the token", func(t *testing.T) {
		auther := new(MockAuthenticator)
		auther.On("Login", mock.Anything, "testuser", "password123").
			Return("signed.jwt.token", nil).Once()

		controller := newTestController(auther)

		ctx := router.NewMockContext()
		ctx.On("Context").Return(context.Background())
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(0).(*authgate.LoginRequest)
			payload.Username = "testuser"
			payload.Password = "password123"
		}).Return(nil)

		var status int
		var body any
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			status = args.Int(0)
			body = args.Get(1)
		}).Return(nil)

		err := controller.LoginPost(ctx)
		require.NoError(t, err)

		assert.Equal(t, router.StatusOK, status)
		response, ok := body.(authgate.LoginResponse)
		require.True(t, ok)
		assert.Equal(t, "signed.jwt.token", response.Token)

		auther.AssertExpectations(t)
	})

	t.Run("bad credentials get the generic 401", func(t *testing.T) {
		auther := new(MockAuthenticator)
		auther.On("Login", mock.Anything, "testuser", "wrong").
			Return("", authgate.ErrInvalidCredentials).Once()

		controller := newTestController(auther)

		ctx := router.NewMockContext()
		ctx.On("Context").Return(context.Background())
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(0).(*authgate.LoginRequest)
			payload.Username = "testuser"
			payload.Password = "wrong"
		}).Return(nil)

		var status int
		var body any
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			status = args.Int(0)
			body = args.Get(1)
		}).Return(nil)

		err := controller.LoginPost(ctx)
		require.NoError(t, err)

		assert.Equal(t, router.StatusUnauthorized, status)
		response, ok := body.(map[string]string)
		require.True(t, ok)
		assert.Equal(t, "invalid credentials", response["error"])
		assert.Len(t, response, 1, "401 body must not leak failure detail")
	})

	t.Run("missing fields fail validation with 400", func(t *testing.T) {
		auther := new(MockAuthenticator)
		controller := newTestController(auther)

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Return(nil)

		var status int
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			status = args.Int(0)
		}).Return(nil)

		err := controller.LoginPost(ctx)
		require.NoError(t, err)

		assert.Equal(t, router.StatusBadRequest, status)
		auther.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unparseable body is a 400", func(t *testing.T) {
		controller := newTestController(new(MockAuthenticator))

		ctx := router.NewMockContext()
		ctx.On("Bind", mock.Anything).Return(assert.AnError)

		var status int
		ctx.On("JSON", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			status = args.Int(0)
		}).Return(nil)

		err := controller.LoginPost(ctx)
		require.NoError(t, err)
		assert.Equal(t, router.StatusBadRequest, status)
	})
}

func TestLogout(t *testing.T) {
	controller := newTestController(new(MockAuthenticator))

	ctx := router.NewMockContext()
	ctx.On("Status", router.StatusNoContent).Return(ctx)
	ctx.On("SendString", "").Return(nil)

	err := controller.Logout(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, authgate.LoginRequest{Username: "u", Password: "p"}.Validate())
	assert.Error(t, authgate.LoginRequest{Password: "p"}.Validate())
	assert.Error(t, authgate.LoginRequest{Username: "u"}.Validate())
	assert.Error(t, authgate.LoginRequest{}.Validate())
}
