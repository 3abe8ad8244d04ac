package config

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// BaseConfig is the application configuration root. go-config hydrates it
// from config/app.json plus environment overrides.
type BaseConfig struct {
	Server      Server      `json:"server"`
	Auth        Auth        `json:"auth"`
	Persistence Persistence `json:"persistence"`
}

// Validate runs at load time. Auth is validated separately in the
// bootstrap, after the signing key env override has been applied.
func (a BaseConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Persistence),
	)
}

func (a BaseConfig) GetServer() Server {
	return a.Server
}

func (a BaseConfig) GetAuth() Auth {
	return a.Auth
}

func (a BaseConfig) GetPersistence() Persistence {
	return a.Persistence
}

type Server struct {
	Address string `json:"address"`
	Debug   bool   `json:"debug"`
}

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8080"
	}
	return s.Address
}

func (s Server) GetDebug() bool {
	return s.Debug
}

// Auth carries the token signing options. A missing signing secret is a
// configuration error and the process must not come up without one.
type Auth struct {
	SigningKey      string   `json:"signing_key"`
	SigningMethod   string   `json:"signing_method"`
	ContextKey      string   `json:"context_key"`
	TokenExpiration int      `json:"token_expiration"`
	TokenLookup     string   `json:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme"`
	Issuer          string   `json:"issuer"`
	Audience        []string `json:"audience"`
}

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required),
	)
}

func (a Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "principal"
	}
	return a.ContextKey
}

// GetTokenExpiration is expressed in hours.
func (a Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 24
	}
	return a.TokenExpiration
}

func (a Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:Authorization"
	}
	return a.TokenLookup
}

func (a Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a Auth) GetIssuer() string {
	return a.Issuer
}

func (a Auth) GetAudience() []string {
	return a.Audience
}

type Persistence struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
	Seed   Seed   `json:"seed"`
}

func (p Persistence) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required),
	)
}

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string {
	return p.DSN
}

func (p Persistence) GetSeed() Seed {
	return p.Seed
}

// Seed describes the bootstrap account created on first run when enabled.
// The password is read from the environment, never from config files.
type Seed struct {
	Enabled  bool   `json:"enabled"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s Seed) GetEnabled() bool {
	return s.Enabled
}

func (s Seed) GetUsername() string {
	if s.Username == "" {
		return "admin"
	}
	return s.Username
}

func (s Seed) GetRole() string {
	if s.Role == "" {
		return "admin"
	}
	return s.Role
}
