// Package requestlog logs one structured line per request: route, method,
// authenticated caller (when a principal is attached), client address, and
// a device label derived from the User-Agent header. Values for configured
// request fields are redacted through an explicit policy table; there is no
// expression evaluation involved.
package requestlog

import (
	"strings"

	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-auth-gateway"
)

// RedactionPolicy maps a request field name to the replacement string that
// is logged instead of its value.
type RedactionPolicy map[string]string

type Config struct {
	Logger auth.Logger
	// Filter skips logging when it returns true.
	Filter func(router.Context) bool
	// ContextKey is the router local the principal lives under; must match
	// the authware ContextKey.
	ContextKey string
	// QueryFields lists query parameters to include in the log line.
	QueryFields []string
	// Redact replaces the listed field values before they hit the log.
	Redact RedactionPolicy
}

// New returns the request logging middleware.
func New(config ...Config) router.MiddlewareFunc {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Logger == nil {
		panic("requestlog: Logger is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "principal"
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			caller := "anonymous"
			if principal, ok := auth.PrincipalFromRouterContext(ctx, cfg.ContextKey); ok {
				caller = principal.Username
			}

			device := DeviceName(ctx.GetString("User-Agent", ""))
			address := clientAddress(ctx)

			var fields strings.Builder
			for _, name := range cfg.QueryFields {
				value := ctx.Query(name, "")
				if value == "" {
					continue
				}
				if replacement, masked := cfg.Redact[name]; masked {
					value = replacement
				}
				fields.WriteString(", ")
				fields.WriteString(name)
				fields.WriteString(": ")
				fields.WriteString(value)
			}

			cfg.Logger.Info(
				"%s START: %s - username: %s - device: %s - address: %s%s",
				ctx.OriginalURL(),
				ctx.Method(),
				caller,
				device,
				address,
				fields.String(),
			)

			return next(ctx)
		}
	}
}

// clientAddress prefers proxy headers over the connection remote address.
func clientAddress(ctx router.Context) string {
	if addr := ctx.GetString("X-Forwarded-For", ""); addr != "" {
		return addr
	}
	if addr := ctx.GetString("X-Real-IP", ""); addr != "" {
		return addr
	}
	return ctx.IP()
}
