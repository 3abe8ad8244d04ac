package authgate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the token endpoints on the given router:
// POST login exchanges credentials for a bearer token, GET logout is the
// stateless acknowledgement for clients that expect one.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("api.login.post")

	app.
		Get(controller.Routes.Logout, controller.Logout).
		SetName("api.logout.get")

	return controller
}

type AuthControllerRoutes struct {
	Login  string
	Logout string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Auther       Authenticator
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:  "/api/login",
			Logout: "/api/logout",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = defaultErrHandler(c.Logger)
	}

	return c
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the username
func (r LoginRequest) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: %s", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error":      "invalid request body",
			"validation": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(LoginRequest{
			Username: payload.Username,
			Password: "[REDACTED]",
		}))
		fmt.Println("=========================")
	}

	token, err := a.Auther.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ctx.JSON(router.StatusUnauthorized, genericAuthFailure)
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, LoginResponse{Token: token})
}

// Logout acknowledges the client throwing its token away. Tokens are not
// tracked server side, so there is nothing to revoke.
func (a *AuthController) Logout(ctx router.Context) error {
	return ctx.Status(router.StatusNoContent).SendString("")
}
