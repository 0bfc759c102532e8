// Package auth contains domain-level types for the client-held session and the
// access levels derived from it. It is pure and free of framework/adapter concerns.
package auth

import "time"

// Role is the role claim returned by the backend on login or registration.
// Only RoleAdmin carries special meaning; every other value is a plain
// authenticated role.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// IsAdmin reports whether r is exactly the admin role constant.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Session is the record persisted for one profile after a successful login or
// registration. Token and Role are always written together.
type Session struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool { return s.Token != "" }

// State is the outcome of reading the persisted session.
type State int

const (
	// StateAbsent means no session record exists for the profile.
	StateAbsent State = iota
	// StateValid means the record decrypted and decoded cleanly.
	StateValid
	// StateCorrupted means a record exists but cannot be decrypted or decoded.
	StateCorrupted
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateCorrupted:
		return "corrupted"
	default:
		return "absent"
	}
}

// Access is the authorization level a route guard decides on.
type Access int

const (
	AccessUnauthenticated Access = iota
	AccessAuthenticated
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessAdmin:
		return "admin"
	case AccessAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// AccessFor derives the access level from a session read. A corrupted record
// never grants access.
func AccessFor(sess Session, state State) Access {
	if state != StateValid || !sess.Authenticated() {
		return AccessUnauthenticated
	}
	if sess.Role.IsAdmin() {
		return AccessAdmin
	}
	return AccessAuthenticated
}
