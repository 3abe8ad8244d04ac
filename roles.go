package authgate

// UserRole is the user's role
type UserRole = string

const (
	// RoleGuest is a guest role (ie. view)
	RoleGuest UserRole = "guest"
	// RoleMember is a member (i.e. view, edit)
	RoleMember UserRole = "member"
	// RoleAdmin is an admin role (i.e. view, edit, create, delete)
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func ValidRole(r UserRole) bool {
	switch r {
	case RoleGuest, RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleAuthorities expands a role into the authority set carried by the
// request principal. Authorities are cumulative down the hierarchy.
func RoleAuthorities(r UserRole) []string {
	switch r {
	case RoleAdmin:
		return []string{"read", "edit", "create", "delete"}
	case RoleMember:
		return []string{"read", "edit"}
	case RoleGuest:
		return []string{"read"}
	default:
		return nil
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, ValidRole(role)
}
