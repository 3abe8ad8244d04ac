package authware

import (
	"errors"
	"strings"

	"github.com/goliatone/go-router"
)

var defaultTokenLookup = "header:" + router.HeaderAuthorization

// ErrNoCredential means the request carried no usable token in any of the
// configured lookup sources. The filter treats it as "proceed unauthenticated".
var ErrNoCredential = errors.New("no bearer credential presented")

type TokenExtractor func(c router.Context) (string, error)

// ExtractRawTokenFromContext runs the extractors in order and returns the
// first raw token found.
func ExtractRawTokenFromContext(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

// GetExtractors parses a lookup definition such as
// "header:Authorization,cookie:token,query:auth_token" into extractors.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) < 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader returns a function that extracts a token from the request
// header. The scheme match is exact and case-sensitive: `<scheme><space><token>`.
// Anything else counts as "no credential presented", not as an error.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		value := c.GetString(header, "")
		if value == "" {
			return "", ErrNoCredential
		}

		prefix := authScheme + " "
		if !strings.HasPrefix(value, prefix) {
			return "", ErrNoCredential
		}

		token := value[len(prefix):]
		if token == "" {
			return "", ErrNoCredential
		}
		return token, nil
	}
}

// tokenFromQuery returns a function that extracts a token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrNoCredential
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts a token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrNoCredential
		}
		return token, nil
	}
}
