// Package authgate implements a small token-based authentication gateway:
// username/password login that issues signed bearer tokens, stateless token
// validation, and a per-request authentication middleware that resolves the
// token back to a stored identity and publishes a request-scoped principal.
//
// Flow:
//   - Login: Auther verifies credentials through an IdentityProvider and
//     asks the TokenService for a signed JWT. Unknown users and bad
//     passwords are indistinguishable to callers.
//   - Requests: middleware/authware extracts a bearer token, validates it,
//     resolves the subject through an IdentityResolver, and attaches a
//     Principal to the request context. Validation failures never abort the
//     request; access control happens downstream via RequireAuthenticated.
//
// Tokens are never stored server-side. The signing secret is process-wide
// configuration, loaded once; an empty secret fails construction.
package authgate
