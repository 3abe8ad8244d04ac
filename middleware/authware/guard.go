package authware

import (
	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-auth-gateway"
)

// GuardConfig configures RequireAuthenticated.
type GuardConfig struct {
	// ContextKey must match the filter's ContextKey.
	ContextKey string
	// ErrorHandler produces the authentication-required response. The
	// default replies 401 with a generic JSON body.
	ErrorHandler router.ErrorHandler
}

// RequireAuthenticated rejects requests that reached the handler without a
// principal attached. Access control lives here, downstream of the filter,
// so the filter itself never has to short-circuit.
func RequireAuthenticated(config ...GuardConfig) router.MiddlewareFunc {
	var cfg GuardConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx router.Context, err error) error {
			return ctx.JSON(router.StatusUnauthorized, map[string]string{
				"error": "authentication required",
			})
		}
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if _, ok := auth.PrincipalFromRouterContext(ctx, cfg.ContextKey); !ok {
				return cfg.ErrorHandler(ctx, auth.ErrIdentityNotFound)
			}
			return next(ctx)
		}
	}
}
