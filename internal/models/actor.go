package models

// Actor is the authenticated caller on whose behalf a service operation runs.
type Actor struct {
	UserID   string
	Username string
	Role     UserRole
}

// IsZero reports whether no caller identity is present.
func (a Actor) IsZero() bool {
	return a.UserID == "" || a.Role == ""
}

// Is reports whether the actor is the given user.
func (a Actor) Is(userID string) bool {
	return !a.IsZero() && a.UserID == userID
}

// Role sets shared by routes and services.
var (
	RolesAdmin     = []UserRole{RoleAdmin}
	RolesStaff     = []UserRole{RoleAdmin, RoleTeacher}
	RolesManagers  = []UserRole{RoleAdmin, RoleClassManager}
	RolesDirectory = []UserRole{RoleAdmin, RoleTeacher, RoleClassManager}
)

// RoleAllowed is the single capability check: it reports whether role is in allowed.
// An empty allowed list admits any known role.
func RoleAllowed(role UserRole, allowed ...UserRole) bool {
	if !role.Valid() {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}

// Actor converts token claims into an explicit caller identity.
func (c *JWTClaims) Actor() Actor {
	if c == nil {
		return Actor{}
	}
	return Actor{UserID: c.UserID, Username: c.Username, Role: c.Role}
}
