// Package models defines client-side data models used by the multisession CLI.
package models

import (
	"strings"
	"time"
)

// Role is the access tier of an account.
type Role string

const (
	RoleUnset Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a server-provided role string to a Role. Unknown values
// (including the empty string) yield RoleUnset and ok=false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return RoleUnset, false
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Profile is the identity part of an account as reported by the server.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role,omitempty"`
}

// Account is one locally cached, authenticated identity.
type Account struct {
	// ID is the registry key. It always equals Username.
	ID string `json:"id"`

	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role,omitempty"`

	// Token is the opaque bearer token issued at login.
	Token string `json:"token"`

	// LoginTime is when Token was obtained (UTC).
	LoginTime time.Time `json:"login_time"`

	// ExpiresAt is read from the token's "exp" claim when the token is a JWT.
	// Zero when unknown. Informational only.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Profile projects the account without its credentials.
func (a Account) Profile() Profile {
	return Profile{Username: a.Username, Email: a.Email, Role: a.Role}
}

// Expired reports whether a known expiry lies before now.
func (a Account) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}
