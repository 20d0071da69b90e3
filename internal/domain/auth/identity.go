package auth

import "github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"

// Identity is the resolved caller of an operation. It is threaded
// explicitly into every service method instead of being read from
// ambient request state, so that authorization decisions are visible at
// the call site.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   user.Role
}

// Authenticated reports whether the identity resolves to a user.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

// IsDriver reports whether the identity carries the driver role.
func (i Identity) IsDriver() bool {
	return i.Role == user.RoleDriver
}
