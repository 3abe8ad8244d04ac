package authgate

import "slices"

// Principal is the authenticated identity resolved for a single request.
// It is created by the authentication middleware, lives in the request
// scope only, and is discarded when the request ends.
type Principal struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities,omitempty"`
}

// NewPrincipal builds a Principal from a resolved identity.
func NewPrincipal(identity Identity) *Principal {
	if identity == nil {
		return nil
	}

	return &Principal{
		UserID:      identity.ID(),
		Username:    identity.Username(),
		Authorities: RoleAuthorities(identity.Role()),
	}
}

// HasAuthority reports whether the principal carries the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Authorities, authority)
}
