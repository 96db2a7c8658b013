package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jetonapp/jeton/internal/core"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// Dashboard denial reasons, ordered: onboarding completeness is always
// checked before plan state.
const (
	ReasonOnboardingIncomplete = "onboarding_incomplete"
	ReasonNoActivePlan         = "no_active_plan"
)

const (
	onboardingRedirectBase = "/onboarding/"
	paymentSelectRedirect  = "/payment/select"
)

// OnboardingServiceOptions groups dependencies for OnboardingService.
type OnboardingServiceOptions struct {
	Users  core.UserRepository
	Steps  core.OnboardingRepository
	Grants core.GrantRepository
	Logger *slog.Logger
}

// OnboardingService is the policy engine for onboarding completion and
// trial/subscription access. It is the sole writer of the user's
// onboarding-completed flag.
type OnboardingService struct {
	users  core.UserRepository
	steps  core.OnboardingRepository
	grants core.GrantRepository
	logger *slog.Logger
}

// NewOnboardingService constructs a new OnboardingService.
func NewOnboardingService(opts OnboardingServiceOptions) *OnboardingService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OnboardingService{
		users:  opts.Users,
		steps:  opts.Steps,
		grants: opts.Grants,
		logger: logger,
	}
}

// GetStatus summarizes onboarding progress. Completed is read from the
// authoritative user flag; missing steps are derived from recorded rows.
func (s *OnboardingService) GetStatus(ctx context.Context, userID string) (*model.OnboardingStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	missing, err := s.missingSteps(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &model.OnboardingStatus{
		Completed:    user.OnboardingCompleted,
		MissingSteps: missing,
	}
	if len(missing) > 0 {
		status.CurrentStep = missing[0]
	}
	return status, nil
}

// UpdateStep upserts a step submission. Completing the final review step
// triggers a completion attempt whose failure must not fail the submission:
// the client retries via the explicit complete endpoint.
func (s *OnboardingService) UpdateStep(ctx context.Context, req *model.UpsertStepRequest) (*model.OnboardingStep, error) {
	step, err := s.steps.UpsertStep(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.StepName == model.StepReviewConfirm && req.Status == model.StepStatusCompleted {
		if completeErr := s.MarkComplete(ctx, req.UserID); completeErr != nil {
			s.logger.WarnContext(ctx, "onboarding completion after final step failed",
				"user_id", req.UserID, "error", completeErr)
		}
	}

	return step, nil
}

// MarkComplete sets the user's onboarding-completed flag. It fails with
// IncompletePrerequisites unless every required step is completed and an
// active grant exists. Repeated calls after success are no-ops; the stored
// completion timestamp never moves.
func (s *OnboardingService) MarkComplete(ctx context.Context, userID string) error {
	missing, err := s.missingSteps(ctx, userID)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperrors.IncompletePrerequisites(
			fmt.Sprintf("onboarding steps incomplete: %d remaining", len(missing)))
	}

	if _, err = s.grants.GetActive(ctx, userID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.IncompletePrerequisites("no active trial or paid plan")
		}
		return fmt.Errorf("check access grant: %w", err)
	}

	applied, err := s.users.MarkOnboardingCompleted(ctx, userID, time.Now())
	if err != nil {
		return fmt.Errorf("mark onboarding completed: %w", err)
	}
	if !applied {
		s.logger.DebugContext(ctx, "onboarding already completed", "user_id", userID)
	}
	return nil
}

// AccessInfo describes a user's current trial/subscription access.
type AccessInfo struct {
	HasAccess     bool            `json:"has_access"`
	Type          model.GrantType `json:"type,omitempty"`
	DaysRemaining int             `json:"days_remaining"`
}

// HasActiveAccess reports whether the user holds a live trial or paid grant.
func (s *OnboardingService) HasActiveAccess(ctx context.Context, userID string) (*AccessInfo, error) {
	grant, err := s.grants.GetActive(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &AccessInfo{}, nil
		}
		return nil, fmt.Errorf("get active grant: %w", err)
	}
	return &AccessInfo{
		HasAccess:     true,
		Type:          grant.Type,
		DaysRemaining: grant.DaysRemaining(time.Now()),
	}, nil
}

// DashboardDecision is the allow/deny outcome for dashboard access.
type DashboardDecision struct {
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// CanAccessDashboard allows access iff onboarding is complete and an active
// grant exists, reporting the first failing reason with a redirect target.
func (s *OnboardingService) CanAccessDashboard(ctx context.Context, userID string) (*DashboardDecision, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.Completed {
		redirect := onboardingRedirectBase + string(model.StepSchoolSetup)
		if status.CurrentStep != "" {
			redirect = onboardingRedirectBase + string(status.CurrentStep)
		}
		return &DashboardDecision{
			Reason:     ReasonOnboardingIncomplete,
			RedirectTo: redirect,
		}, nil
	}

	access, err := s.HasActiveAccess(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !access.HasAccess {
		return &DashboardDecision{
			Reason:     ReasonNoActivePlan,
			RedirectTo: paymentSelectRedirect,
		}, nil
	}

	return &DashboardDecision{Allowed: true}, nil
}

// missingSteps returns required steps without a completed row, in flow order.
func (s *OnboardingService) missingSteps(ctx context.Context, userID string) ([]model.StepName, error) {
	recorded, err := s.steps.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list onboarding steps: %w", err)
	}

	completed := make(map[model.StepName]bool, len(recorded))
	for _, step := range recorded {
		if step.Status == model.StepStatusCompleted {
			completed[step.StepName] = true
		}
	}

	var missing []model.StepName
	for _, name := range model.RequiredSteps() {
		if !completed[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
