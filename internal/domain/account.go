package domain

import "strings"

// Role is the authorization role of a signed-in user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	// RoleAdminPrefixed is the Spring Security spelling of RoleAdmin.
	RoleAdminPrefixed Role = "ROLE_ADMIN"
)

// Me is the session identity returned by /api/auth/me.
type Me struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

// IsAdmin reports whether the user holds the admin role in either spelling.
func (m *Me) IsAdmin() bool {
	if m == nil {
		return false
	}
	role := Role(strings.ToUpper(strings.TrimSpace(string(m.Role))))
	return role == RoleAdmin || role == RoleAdminPrefixed
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the signup request body.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of a profile mutation.
type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PasswordChange is the body of a password change.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
