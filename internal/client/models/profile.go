// Package models defines the value objects exchanged between the session
// manager, the API client and the CLI.
package models

// Role is the authorization level the server assigns to a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RolePremium Role = "premium"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RolePremium:
		return true
	}
	return false
}

// Profile is the authenticated user as returned by the profile endpoint.
// It is only ever kept in memory.
type Profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UserSummary is the server's answer to a successful registration.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse carries the access token issued on login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// AdminResponse is returned by the admin-only endpoint.
type AdminResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

// LogoutResponse is returned by the logout endpoint.
type LogoutResponse struct {
	Message string `json:"message"`
}
