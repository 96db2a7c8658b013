package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RoleTeacher Role = "teacher"
	RoleGuest   Role = "guest"
)

// Valid reports whether the role is one of the known role constants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleTeacher, RoleGuest:
		return true
	}
	return false
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (random URL-safe string, never reused).
// CSRFToken is bound 1:1 to the session for double-submit verification.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SchoolID  *string   `json:"school_id,omitempty"`
	Role      Role      `json:"role"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }

// Identity is the per-request snapshot handlers receive after full validation.
// It intentionally carries no credential material.
type Identity struct {
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	SchoolID  *string   `json:"school_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity derives the request identity from a validated session.
func (s Session) Identity() Identity {
	return Identity{
		UserID:    s.UserID,
		Role:      s.Role,
		SchoolID:  s.SchoolID,
		ExpiresAt: s.ExpiresAt,
	}
}
