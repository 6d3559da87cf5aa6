package domain

type Role string

const (
	// Admin can manage any user's contacts and account state.
	RoleAdmin Role = "admin"
	// Moderator can read contacts across users but not manage accounts.
	RoleModerator Role = "moderator"
	// User owns and manages only their own contacts.
	RoleUser Role = "user"
	// Guest is authenticated but has no contact access yet.
	RoleGuest Role = "guest"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleModerator, RoleUser, RoleGuest:
		return true
	}
	return false
}

// RoleAllowed reports whether role is in the allowed set. Kept free of any
// HTTP types so route gates stay a pure role check.
func RoleAllowed(role string, allowed ...Role) bool {
	for _, a := range allowed {
		if Role(role) == a {
			return true
		}
	}
	return false
}
