package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jetonapp/jeton/internal/data/pgxutil"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

const grantColumns = `id, user_id, grant_type, start_date, end_date, is_active, created_at`

// GrantRepo persists trial and subscription grants.
type GrantRepo struct {
	DB *sql.DB
}

// NewGrantRepo creates a new GrantRepo.
func NewGrantRepo(db *sql.DB) *GrantRepo {
	return &GrantRepo{DB: db}
}

// Create deactivates any existing grants for the user and inserts the new one
// in a single transaction, preserving the at-most-one-active invariant.
func (r *GrantRepo) Create(ctx context.Context, req *model.CreateGrantRequest) (*model.AccessGrant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.AccessGrant
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if _, execErr := tx.Exec(ctx,
			`UPDATE access_grants SET is_active = false WHERE user_id = $1 AND is_active`,
			req.UserID); execErr != nil {
			return execErr
		}

		rows, qErr := tx.Query(ctx, `
			INSERT INTO access_grants (user_id, grant_type, start_date, end_date, is_active)
			VALUES ($1, $2, $3, $4, true)
			RETURNING `+grantColumns,
			req.UserID, req.Type, req.StartDate, req.EndDate)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AccessGrant])
		return qErr
	}})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetActive returns the user's live grant. Expiry is enforced in the query so
// stale is_active rows never confer access.
func (r *GrantRepo) GetActive(ctx context.Context, userID string) (*model.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_grants
		WHERE user_id = $1 AND is_active AND end_date >= now()
		ORDER BY end_date DESC
		LIMIT 1`

	var g model.AccessGrant
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, userID)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		g, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AccessGrant])
		return qErr
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("no active grant")
	}
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &g, nil
}
