// Package identity carries the authenticated caller's user id and role set
// as an explicit value passed into every operation, and issues/verifies the
// tokens that transport it.
package identity

import "github.com/yamabiko/project-management-api/internal/models"

// Identity is the resolved caller: a stable user id plus the roles granted
// at signup. Operations trust this set completely and never re-verify
// credentials.
type Identity struct {
	UserID   uint64
	Username string
	Roles    []models.RoleName
}

// HasRole reports whether the identity carries the given role.
func (id Identity) HasRole(name models.RoleName) bool {
	for _, r := range id.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// FromUser builds an identity from a stored user with roles preloaded.
func FromUser(user *models.User) Identity {
	return Identity{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
	}
}
