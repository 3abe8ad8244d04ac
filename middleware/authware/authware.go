// Package authware is the per-request authentication filter: it extracts a
// bearer token, validates it, resolves the subject against the credential
// store, and publishes a request-scoped principal. The middleware never
// rejects a request on its own; every failure degrades to "no principal
// attached" and the chain continues. Pair it with RequireAuthenticated on
// routes that demand an authenticated caller.
package authware

import (
	"context"

	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-auth-gateway"
)

// IdentityResolver resolves a validated token subject to a stored identity.
type IdentityResolver interface {
	FindIdentityByID(ctx context.Context, id int64) (auth.Identity, error)
}

// Observer is notified of swallowed authentication failures so they stay
// visible to logs and sinks even though the request proceeds.
type Observer func(ctx router.Context, err error)

// DefaultContextKey is where the principal lands in router locals.
const DefaultContextKey = "principal"

type Config struct {
	// Filter skips authentication entirely when it returns true.
	Filter func(router.Context) bool
	// SuccessHandler runs after the principal is attached. Defaults to
	// continuing the chain.
	SuccessHandler router.HandlerFunc
	// TokenValidator is required.
	TokenValidator auth.TokenValidator
	// IdentityResolver is required.
	IdentityResolver IdentityResolver
	// ContextKey names the router local holding the principal.
	ContextKey string
	// TokenLookup is a comma separated list of `source:name` entries,
	// e.g. "header:Authorization,cookie:token".
	TokenLookup string
	// AuthScheme is the expected header scheme prefix. Matching is exact:
	// scheme, one space, token.
	AuthScheme string
	// Observer receives every swallowed validation or resolution failure.
	Observer Observer
	// ContextEnricher can append extra values to the standard context after
	// the principal and claims have been published.
	ContextEnricher func(c context.Context, principal *auth.Principal) context.Context
	Logger          auth.Logger
}

// New returns the authentication middleware. Outcomes per request:
// no credential, invalid credential, or gone identity all continue the
// chain unauthenticated; a resolved identity attaches a principal to the
// router locals and the standard context before continuing.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if raw == "" || err != nil {
				// no credential presented: not a failure, proceed
				return ctx.Next()
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				cfg.observe(ctx, err)
				return ctx.Next()
			}

			userID, err := claims.UserID()
			if err != nil {
				cfg.observe(ctx, err)
				return ctx.Next()
			}

			identity, err := cfg.IdentityResolver.FindIdentityByID(ctx.Context(), userID)
			if err != nil {
				cfg.observe(ctx, err)
				return ctx.Next()
			}

			principal := auth.NewPrincipal(identity)
			ctx.Locals(cfg.ContextKey, principal)

			stdCtx := auth.WithClaimsContext(ctx.Context(), claims)
			stdCtx = auth.WithPrincipalContext(stdCtx, principal)
			if cfg.ContextEnricher != nil {
				stdCtx = cfg.ContextEnricher(stdCtx, principal)
			}
			ctx.SetContext(stdCtx)

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: authware configuration: TokenValidator is required.")
	}

	if cfg.IdentityResolver == nil {
		panic("AUTH: authware configuration: IdentityResolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	return cfg
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) observe(ctx router.Context, err error) {
	cfg.Logger.Debug("request authentication failed: %s", auth.TokenFailureKind(err))
	if cfg.Observer != nil {
		cfg.Observer(ctx, err)
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
