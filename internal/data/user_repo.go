package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jetonapp/jeton/internal/data/pgxutil"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

const userColumns = `id, email, username, password_hash, role, school_id,
	onboarding_completed, onboarding_completed_at, last_login_at, created_at, updated_at`

// UserRepo provides user account persistence backed by Postgres.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// Create inserts a new user. The password hash must already be computed.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (email, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, req.Email, req.Username, req.PasswordHash, req.Role)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return qErr
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIdentifier looks a user up by email (case-insensitive) first, falling
// back to exact username match. Callers must not leak which lookup failed.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	u, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, identifier)
	if err == nil {
		return u, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, identifier)
}

// MarkOnboardingCompleted sets the completion flag and timestamp. The update
// only applies while the flag is still false, which makes repeated calls
// no-ops: the stored timestamp never moves once set.
func (r *UserRepo) MarkOnboardingCompleted(ctx context.Context, userID string, at time.Time) (bool, error) {
	query := `
		UPDATE users
		SET onboarding_completed = true, onboarding_completed_at = $2, updated_at = now()
		WHERE id = $1 AND onboarding_completed = false`

	var applied bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, query, userID, at)
		if execErr != nil {
			return execErr
		}
		applied = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return applied, nil
}

// TouchLastLogin records the login instant. Best-effort: callers log failures
// and continue.
func (r *UserRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx,
			`UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`, userID, at)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("touch last login: %w", apperrors.MapDBError(err))
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, arg)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		u, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return qErr
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &u, nil
}
