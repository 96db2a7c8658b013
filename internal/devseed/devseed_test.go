package devseed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	"github.com/jetonapp/jeton/internal/domain/model"
	mockauth "github.com/jetonapp/jeton/internal/mocks/auth"
	"github.com/jetonapp/jeton/internal/service"
)

type fakeHasher struct{}

func (fakeHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

type seedFixture struct {
	deps   Deps
	users  *mockauth.MemoryUserRepo
	steps  *mockauth.MemoryOnboardingRepo
	grants *mockauth.MemoryGrantRepo
}

func newSeedFixture() seedFixture {
	users := mockauth.NewMemoryUserRepo()
	steps := mockauth.NewMemoryOnboardingRepo()
	grants := mockauth.NewMemoryGrantRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	onboarding := service.NewOnboardingService(service.OnboardingServiceOptions{
		Users:  users,
		Steps:  steps,
		Grants: grants,
		Logger: logger,
	})
	return seedFixture{
		deps: Deps{
			Users:      users,
			Steps:      steps,
			Grants:     grants,
			Onboarding: onboarding,
			Hasher:     fakeHasher{},
			Logger:     logger,
		},
		users:  users,
		steps:  steps,
		grants: grants,
	}
}

func TestRun_SkipsWithoutPassword(t *testing.T) {
	f := newSeedFixture()

	require.NoError(t, Run(context.Background(), f.deps, ""))

	_, err := f.users.GetByIdentifier(context.Background(), adminEmail)
	assert.Error(t, err, "no account should be created without a password")
}

func TestRun_SeedsReadyToUseAdmin(t *testing.T) {
	f := newSeedFixture()
	ctx := context.Background()

	require.NoError(t, Run(ctx, f.deps, "local-only-password"))

	user, err := f.users.GetByIdentifier(ctx, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, adminUsername, user.Username)
	assert.Equal(t, domainauth.RoleAdmin, user.Role)
	assert.Equal(t, "hashed:local-only-password", user.PasswordHash)
	assert.True(t, user.OnboardingCompleted)

	listed, err := f.steps.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, listed, len(model.RequiredSteps()))
	for _, step := range listed {
		assert.Equal(t, model.StepStatusCompleted, step.Status)
	}

	grant, err := f.grants.GetActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GrantTrial, grant.Type)
}

// recordingCompleter wraps a completer and remembers who it was called for.
type recordingCompleter struct {
	inner  OnboardingCompleter
	userID string
}

func (r *recordingCompleter) MarkComplete(ctx context.Context, userID string) error {
	r.userID = userID
	return r.inner.MarkComplete(ctx, userID)
}

func TestRun_FinalizesThroughOnboardingService(t *testing.T) {
	f := newSeedFixture()
	rec := &recordingCompleter{inner: f.deps.Onboarding}
	f.deps.Onboarding = rec
	ctx := context.Background()

	require.NoError(t, Run(ctx, f.deps, "local-only-password"))

	user, err := f.users.GetByIdentifier(ctx, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, user.ID, rec.userID, "completed flag must be set by the onboarding service")
	assert.True(t, user.OnboardingCompleted)
}

func TestRun_SecondRunLeavesAccountAlone(t *testing.T) {
	f := newSeedFixture()
	ctx := context.Background()

	require.NoError(t, Run(ctx, f.deps, "first-password"))
	require.NoError(t, Run(ctx, f.deps, "second-password"))

	user, err := f.users.GetByIdentifier(ctx, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, "hashed:first-password", user.PasswordHash,
		"existing account must not be rewritten")
}
