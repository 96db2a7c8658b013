package model

import (
	"time"

	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// GrantType distinguishes free trials from paid subscriptions.
type GrantType string

const (
	GrantTrial GrantType = "trial"
	GrantPaid  GrantType = "paid"
)

// AccessGrant is a time-bounded access entitlement. At most one grant per
// user is active at a time; access is live iff IsActive and now <= EndDate.
type AccessGrant struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Type      GrantType `json:"type"       db:"grant_type"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date"   db:"end_date"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Live reports whether the grant confers access at the given instant.
func (g AccessGrant) Live(now time.Time) bool {
	return g.IsActive && !now.After(g.EndDate)
}

// DaysRemaining returns whole days of access left, never negative.
func (g AccessGrant) DaysRemaining(now time.Time) int {
	if now.After(g.EndDate) {
		return 0
	}
	return int(g.EndDate.Sub(now).Hours() / 24)
}

// CreateGrantRequest carries the fields needed to start a trial or paid plan.
type CreateGrantRequest struct {
	UserID    string
	Type      GrantType
	StartDate time.Time
	EndDate   time.Time
}

// Validate checks request fields before the insert.
func (r *CreateGrantRequest) Validate() error {
	if r.UserID == "" {
		return apperrors.ValidationField("user_id", "user id is required")
	}
	switch r.Type {
	case GrantTrial, GrantPaid:
	default:
		return apperrors.ValidationField("type", "grant type must be trial or paid")
	}
	if r.EndDate.Before(r.StartDate) {
		return apperrors.ValidationField("end_date", "end date precedes start date")
	}
	return nil
}
