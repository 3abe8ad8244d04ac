package authgate

import (
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSValidator validates tokens issued by an external authority whose keys
// are published as a JWK Set. Combine it with the local TokenService through
// a MultiTokenValidator when the gateway fronts more than one issuer.
type JWKSValidator struct {
	keyFunc jwt.Keyfunc
	issuer  string
	logger  Logger
}

// JWKSOption configures a JWKSValidator.
type JWKSOption func(*JWKSValidator)

// WithJWKSIssuer pins the expected iss claim.
func WithJWKSIssuer(issuer string) JWKSOption {
	return func(v *JWKSValidator) {
		v.issuer = issuer
	}
}

// WithJWKSLogger sets the logger used for refresh errors.
func WithJWKSLogger(logger Logger) JWKSOption {
	return func(v *JWKSValidator) {
		v.logger = logger
	}
}

// NewJWKSValidator fetches and caches the JWK Sets behind the given URLs.
func NewJWKSValidator(jwkSetURLs []string, opts ...JWKSOption) (*JWKSValidator, error) {
	v := &JWKSValidator{logger: defLogger{}}
	for _, opt := range opts {
		opt(v)
	}

	options := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			v.logger.Error("failed to do a background refresh of JWK set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	m := make(map[string]keyfunc.Options, len(jwkSetURLs))
	for _, url := range jwkSetURLs {
		m[url] = options
	}

	multi, err := keyfunc.GetMultiple(m, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, err
	}

	v.keyFunc = multi.Keyfunc
	return v, nil
}

// Validate satisfies the TokenValidator interface.
func (v *JWKSValidator) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, v.keyFunc, parserOptions...)
	if err != nil {
		return nil, classifyJWTValidationError(err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenMalformed
}
