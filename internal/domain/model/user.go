package model

// Package model defines persisted domain models shared between the data and
// service layers.

import (
	"strings"
	"time"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// User is a tenant account. SchoolID is nil until the user finishes the
// school-setup onboarding step. PasswordHash is never serialized.
type User struct {
	ID                     string          `json:"id"                                  db:"id"`
	Email                  string          `json:"email"                               db:"email"`
	Username               string          `json:"username"                            db:"username"`
	PasswordHash           string          `json:"-"                                   db:"password_hash"`
	Role                   domainauth.Role `json:"role"                                db:"role"`
	SchoolID               *string         `json:"school_id,omitempty"                 db:"school_id"`
	OnboardingCompleted    bool            `json:"onboarding_completed"                db:"onboarding_completed"`
	OnboardingCompletedAt  *time.Time      `json:"onboarding_completed_at,omitempty"   db:"onboarding_completed_at"`
	LastLoginAt            *time.Time      `json:"last_login_at,omitempty"             db:"last_login_at"`
	CreatedAt              time.Time       `json:"created_at"                          db:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"                          db:"updated_at"`
}

// CreateUserRequest carries the fields needed to create a user.
// PasswordHash must already be hashed; plaintext never reaches the data layer.
type CreateUserRequest struct {
	Email        string
	Username     string
	PasswordHash string
	Role         domainauth.Role
}

// Validate checks request fields before the insert.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return apperrors.ValidationField("email", "email is malformed")
	}
	if strings.TrimSpace(r.Username) == "" {
		return apperrors.ValidationField("username", "username is required")
	}
	if r.PasswordHash == "" {
		return apperrors.ValidationField("password", "password hash is required")
	}
	if !r.Role.Valid() {
		return apperrors.ValidationField("role", "unknown role")
	}
	return nil
}
