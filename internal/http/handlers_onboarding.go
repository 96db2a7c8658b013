package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
	"github.com/jetonapp/jeton/internal/service"
)

// OnboardingServiceInterface defines the policy engine operations the
// handlers need.
type OnboardingServiceInterface interface {
	GetStatus(ctx context.Context, userID string) (*model.OnboardingStatus, error)
	UpdateStep(ctx context.Context, req *model.UpsertStepRequest) (*model.OnboardingStep, error)
	MarkComplete(ctx context.Context, userID string) error
	CanAccessDashboard(ctx context.Context, userID string) (*service.DashboardDecision, error)
}

// OnboardingHandlers provides HTTP handlers for the onboarding and access
// policy endpoints. All routes sit behind RequireSession.
type OnboardingHandlers struct {
	Svc OnboardingServiceInterface
}

// Status returns the caller's onboarding progress.
// GET /onboarding/status.
func (h *OnboardingHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	status, err := h.Svc.GetStatus(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// stepRequest is the POST /onboarding/step body.
type stepRequest struct {
	StepName string          `json:"step_name"`
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
}

// UpdateStep records a step submission for the caller.
// POST /onboarding/step.
func (h *OnboardingHandlers) UpdateStep(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	var req stepRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	upsert := &model.UpsertStepRequest{
		UserID:   session.UserID,
		StepName: model.StepName(req.StepName),
		Status:   model.StepStatus(req.Status),
		Data:     req.Data,
	}
	if err := upsert.Validate(); err != nil {
		WriteError(w, err)
		return
	}

	step, err := h.Svc.UpdateStep(r.Context(), upsert)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, step)
}

// Complete attempts to finalize the caller's onboarding.
// POST /onboarding/complete.
func (h *OnboardingHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	if err := h.Svc.MarkComplete(r.Context(), session.UserID); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"completed": true})
}

// Dashboard returns the allow/deny policy decision for dashboard access.
// GET /access/dashboard.
func (h *OnboardingHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, apperrors.Unauthenticated("authentication required"))
		return
	}

	decision, err := h.Svc.CanAccessDashboard(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, decision)
}
