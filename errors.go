package authgate

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes let callers and log pipelines tell token failure kinds apart
// even after they collapse into a generic unauthenticated response.
const (
	TextCodeTokenMalformed        = "TOKEN_MALFORMED"
	TextCodeTokenExpired          = "TOKEN_EXPIRED"
	TextCodeTokenUnsupported      = "TOKEN_UNSUPPORTED"
	TextCodeTokenInvalidSignature = "TOKEN_INVALID_SIGNATURE"
	TextCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	TextCodeIdentityNotFound      = "IDENTITY_NOT_FOUND"
	TextCodeIdentityGone          = "IDENTITY_GONE"
	TextCodeMissingSigningKey     = "MISSING_SIGNING_KEY"
)

// ErrTokenMalformed is returned when a token string cannot be parsed
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenExpired is returned when now is at or past the token expiry
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenUnsupported is returned for tokens signed with an algorithm this
// gateway does not issue
var ErrTokenUnsupported = errors.New("authentication token algorithm is unsupported", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenUnsupported)

// ErrTokenInvalidSignature is returned when the signature does not verify
var ErrTokenInvalidSignature = errors.New("authentication token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenInvalidSignature)

// ErrInvalidCredentials is the single login failure callers see: unknown
// user and wrong password both map here so usernames cannot be enumerated
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCredentials)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeIdentityNotFound)

// ErrIdentityGone is returned when a valid token references a user that no
// longer exists; treated as unauthenticated, never as a fault
var ErrIdentityGone = errors.New("token subject no longer exists", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeIdentityGone)

// ErrMissingSigningKey is fatal at startup: the gateway refuses to run
// without a signing secret
var ErrMissingSigningKey = errors.New("signing key must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeMissingSigningKey)

// ErrMismatchedHashAndPassword is the password comparison failure
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation)

// textCode pulls the taxonomy code off a rich error chain, or "" when the
// error carries none. go-errors renders client-safe messages, so matching on
// Error() strings only works for foreign errors.
func textCode(err error) string {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		textCode(err) == TextCodeTokenExpired ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		textCode(err) == TextCodeTokenMalformed ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// TokenFailureKind reduces an authentication error to its taxonomy text code
// for observability. Rich errors report their own code, so resolution
// failures like ErrIdentityGone keep their label; anything without a code
// reports as malformed.
func TokenFailureKind(err error) string {
	if err == nil {
		return ""
	}
	if code := textCode(err); code != "" {
		return code
	}
	return TextCodeTokenMalformed
}
