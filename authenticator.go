package authgate

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Auther orchestrates credential verification and token issuance.
type Auther struct {
	provider       IdentityProvider
	tokenService   TokenService
	tokenValidator TokenValidator
	logger         Logger
	activitySink   ActivitySink
}

// NewAuthenticator returns a new Authenticator. It fails when the token
// service cannot be built, notably on an empty signing secret.
func NewAuthenticator(provider IdentityProvider, opts Config) (*Auther, error) {
	tokenService, err := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		jwt.ClaimStrings(opts.GetAudience()),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenValidator sets a custom token validator for externally issued tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the given credentials and issues a signed token. Unknown
// users and wrong passwords both surface as ErrInvalidCredentials; nothing
// in the returned error reveals which one happened.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, 0, map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})

		if errors.Is(err, ErrMismatchedHashAndPassword) || errors.Is(err, ErrIdentityNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identity.ID(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, identity.ID(), map[string]any{
		"identifier": identifier,
	})

	return token, nil
}

// PrincipalFromToken validates a raw token and resolves its subject to a
// request principal. Failure kinds are preserved in the returned error.
func (s *Auther) PrincipalFromToken(ctx context.Context, raw string) (*Principal, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventTokenRejected, 0, map[string]any{
			"kind": TokenFailureKind(err),
		})
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventTokenRejected, 0, map[string]any{
			"kind": TextCodeTokenMalformed,
		})
		return nil, err
	}

	identity, err := s.provider.FindIdentityByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrIdentityGone) {
			s.emitAuthEvent(ctx, ActivityEventIdentityGone, userID, nil)
		}
		return nil, err
	}

	return NewPrincipal(identity), nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID int64, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

var _ Authenticator = (*Auther)(nil)
