package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jetonapp/jeton/internal/data/pgxutil"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// SessionAuditRepo records session metadata (hashed session key, IP, user
// agent). All writes are best-effort from the caller's perspective.
type SessionAuditRepo struct {
	DB *sql.DB
}

// NewSessionAuditRepo creates a new SessionAuditRepo.
func NewSessionAuditRepo(db *sql.DB) *SessionAuditRepo {
	return &SessionAuditRepo{DB: db}
}

// Record inserts one audit entry.
func (r *SessionAuditRepo) Record(ctx context.Context, entry *model.SessionAuditEntry) error {
	if entry.SessionKey == "" || entry.UserID == "" {
		return apperrors.Validation("session key and user id are required")
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO session_audit (session_key, user_id, ip_address, user_agent)
			VALUES ($1, $2, $3, $4)`,
			entry.SessionKey, entry.UserID, entry.IPAddress, entry.UserAgent)
		return execErr
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// DeleteOlderThan removes audit rows older than the cutoff and returns the
// number of rows deleted. Used for retention sweeps.
func (r *SessionAuditRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx,
			`DELETE FROM session_audit WHERE created_at < $1`, cutoff)
		if execErr != nil {
			return execErr
		}
		deleted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return deleted, nil
}
