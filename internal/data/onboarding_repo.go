package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/jetonapp/jeton/internal/data/pgxutil"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// OnboardingRepo persists onboarding step progress.
type OnboardingRepo struct {
	DB *sql.DB
}

// NewOnboardingRepo creates a new OnboardingRepo.
func NewOnboardingRepo(db *sql.DB) *OnboardingRepo {
	return &OnboardingRepo{DB: db}
}

// UpsertStep inserts or replaces a step keyed by (user_id, step_name).
// Repeated submissions for the same step overwrite status and payload.
func (r *OnboardingRepo) UpsertStep(ctx context.Context, req *model.UpsertStepRequest) (*model.OnboardingStep, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	data := req.Data
	if len(data) == 0 {
		data = []byte(`{}`)
	}

	query := `
		INSERT INTO onboarding_steps (user_id, step_name, status, data, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, step_name)
		DO UPDATE SET status = EXCLUDED.status, data = EXCLUDED.data, updated_at = now()
		RETURNING user_id, step_name, status, data, updated_at`

	var out model.OnboardingStep
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, req.UserID, req.StepName, req.Status, data)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.OnboardingStep])
		return qErr
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByUser returns all recorded steps for a user, in flow order.
func (r *OnboardingRepo) ListByUser(ctx context.Context, userID string) ([]*model.OnboardingStep, error) {
	query := `
		SELECT user_id, step_name, status, data, updated_at
		FROM onboarding_steps
		WHERE user_id = $1
		ORDER BY array_position(ARRAY['school_setup','admin_profile','payment_plan','review_confirm'], step_name)`

	var steps []*model.OnboardingStep
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, userID)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		steps, qErr = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.OnboardingStep])
		return qErr
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return steps, nil
}
