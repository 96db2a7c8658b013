package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
	"github.com/jetonapp/jeton/internal/testutil"
)

func TestGrantRepo_CreateAndGetActive(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGrantRepo(db)
		userID := createTestUser(t, db)

		grant, err := repo.Create(ctx, testutil.NewGrantRequest(userID).Build())
		require.NoError(t, err)
		require.NotEmpty(t, grant.ID)
		assert.Equal(t, model.GrantTrial, grant.Type)
		assert.True(t, grant.IsActive)

		active, err := repo.GetActive(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, grant.ID, active.ID)
	})
}

func TestGrantRepo_CreateDeactivatesPreviousGrants(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGrantRepo(db)
		userID := createTestUser(t, db)

		trial, err := repo.Create(ctx, testutil.NewGrantRequest(userID).Build())
		require.NoError(t, err)

		now := time.Now()
		paid, err := repo.Create(ctx, testutil.NewGrantRequest(userID).
			WithType(model.GrantPaid).
			WithWindow(now, now.Add(365*24*time.Hour)).
			Build())
		require.NoError(t, err)
		assert.NotEqual(t, trial.ID, paid.ID)

		// upgrading replaces the trial as the single active grant
		active, err := repo.GetActive(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, paid.ID, active.ID)
		assert.Equal(t, model.GrantPaid, active.Type)

		var activeCount int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT count(*) FROM access_grants WHERE user_id = $1 AND is_active", userID).
			Scan(&activeCount))
		assert.Equal(t, 1, activeCount)
	})
}

func TestGrantRepo_GetActive_IgnoresExpiredGrants(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGrantRepo(db)
		userID := createTestUser(t, db)

		// is_active is still true here; expiry must be enforced by the query
		_, err := repo.Create(ctx, testutil.NewGrantRequest(userID).Expired().Build())
		require.NoError(t, err)

		_, err = repo.GetActive(ctx, userID)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestGrantRepo_GetActive_NoGrants(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		userID := createTestUser(t, db)

		_, err := NewGrantRepo(db).GetActive(context.Background(), userID)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestGrantRepo_Create_UnknownUserFails(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		_, err := NewGrantRepo(db).Create(context.Background(),
			testutil.NewGrantRequest("no-such-user").Build())
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}
