package model

import (
	"encoding/json"
	"time"

	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// StepName identifies one unit of the required onboarding flow.
type StepName string

const (
	StepSchoolSetup   StepName = "school_setup"
	StepAdminProfile  StepName = "admin_profile"
	StepPaymentPlan   StepName = "payment_plan"
	StepReviewConfirm StepName = "review_confirm"
)

// RequiredSteps lists every onboarding step in completion order.
// The slice is ordered; the first incomplete entry is the user's current step.
func RequiredSteps() []StepName {
	return []StepName{StepSchoolSetup, StepAdminProfile, StepPaymentPlan, StepReviewConfirm}
}

// Valid reports whether the step name is one of the required steps.
func (s StepName) Valid() bool {
	for _, known := range RequiredSteps() {
		if s == known {
			return true
		}
	}
	return false
}

// StepStatus is the completion state of a single onboarding step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusCompleted StepStatus = "completed"
)

// OnboardingStep is one row of a user's onboarding progress,
// idempotently upsertable by (UserID, StepName).
type OnboardingStep struct {
	UserID    string          `json:"user_id"    db:"user_id"`
	StepName  StepName        `json:"step_name"  db:"step_name"`
	Status    StepStatus      `json:"status"     db:"status"`
	Data      json.RawMessage `json:"data"       db:"data"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// UpsertStepRequest carries a step submission.
type UpsertStepRequest struct {
	UserID   string
	StepName StepName
	Status   StepStatus
	Data     json.RawMessage
}

// Validate checks the submission before the upsert.
func (r *UpsertStepRequest) Validate() error {
	if r.UserID == "" {
		return apperrors.ValidationField("user_id", "user id is required")
	}
	if !r.StepName.Valid() {
		return apperrors.ValidationField("step_name", "unknown onboarding step")
	}
	switch r.Status {
	case StepStatusPending, StepStatusCompleted:
	default:
		return apperrors.ValidationField("status", "status must be pending or completed")
	}
	return nil
}

// OnboardingStatus summarizes a user's onboarding progress.
// Completed reflects the authoritative User.OnboardingCompleted flag, not a
// recomputation from steps, so later step edits cannot flip it back.
type OnboardingStatus struct {
	Completed    bool       `json:"completed"`
	MissingSteps []StepName `json:"missing_steps"`
	CurrentStep  StepName   `json:"current_step,omitempty"`
}
