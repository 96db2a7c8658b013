package core

import (
	"context"
	"time"

	"github.com/jetonapp/jeton/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByIdentifier looks a user up by email (case-insensitive) first,
	// falling back to exact username match.
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	// MarkOnboardingCompleted sets the completion flag and timestamp.
	// It is idempotent: the update only applies when the flag is still false,
	// and the boolean result reports whether this call performed the write.
	MarkOnboardingCompleted(ctx context.Context, userID string, at time.Time) (bool, error)
	// TouchLastLogin is a best-effort write; callers log and ignore failures.
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// OnboardingRepository defines the interface for onboarding step data operations.
type OnboardingRepository interface {
	// UpsertStep inserts or replaces a step keyed by (userID, stepName).
	UpsertStep(ctx context.Context, req *model.UpsertStepRequest) (*model.OnboardingStep, error)
	ListByUser(ctx context.Context, userID string) ([]*model.OnboardingStep, error)
}

// GrantRepository defines the interface for trial/subscription grant data operations.
type GrantRepository interface {
	// Create deactivates any existing grants for the user and inserts the new
	// one in a single transaction, preserving the at-most-one-active invariant.
	Create(ctx context.Context, req *model.CreateGrantRequest) (*model.AccessGrant, error)
	// GetActive returns the user's live grant, or a NotFound error.
	GetActive(ctx context.Context, userID string) (*model.AccessGrant, error)
}

// SessionAuditRepository records best-effort session metadata for audit and
// anomaly detection. Write failures must never fail the parent request.
type SessionAuditRepository interface {
	Record(ctx context.Context, entry *model.SessionAuditEntry) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
