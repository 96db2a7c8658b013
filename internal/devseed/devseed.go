package devseed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jetonapp/jeton/internal/core"
	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

const (
	adminEmail    = "admin@jeton.local"
	adminUsername = "admin"

	trialDays = 14
)

// PasswordHasher hashes a plaintext password for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// OnboardingCompleter finalizes onboarding for a user. The onboarding
// service owns the completed flag, so seeding goes through it rather than
// writing the flag on the user record directly.
type OnboardingCompleter interface {
	MarkComplete(ctx context.Context, userID string) error
}

// Deps bundles the dependencies needed for development seeding.
type Deps struct {
	Users      core.UserRepository
	Steps      core.OnboardingRepository
	Grants     core.GrantRepository
	Onboarding OnboardingCompleter
	Hasher     PasswordHasher
	Logger     *slog.Logger
}

// Run creates a ready-to-use admin account for local development: the
// account has every onboarding step completed and an active trial grant, so
// the seeded user lands straight on the dashboard after login.
//
// The password comes from configuration and is never embedded here. When no
// password is configured, seeding is skipped entirely.
func Run(ctx context.Context, d Deps, password string) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if password == "" {
		logger.WarnContext(ctx, "dev seed skipped", "reason", "AUTH_DEV_SEED_PASSWORD not set")
		return nil
	}

	user, created, err := ensureAdminUser(ctx, d, password)
	if err != nil {
		return err
	}
	if !created {
		logger.InfoContext(ctx, "dev admin already seeded", "email", adminEmail)
		return nil
	}

	// The grant must exist before MarkComplete, which checks for a live
	// trial or paid plan.
	if err := completeSteps(ctx, d, user.ID); err != nil {
		return err
	}
	if err := grantTrial(ctx, d, user.ID); err != nil {
		return err
	}
	if err := d.Onboarding.MarkComplete(ctx, user.ID); err != nil {
		return fmt.Errorf("mark dev admin onboarded: %w", err)
	}

	logger.InfoContext(ctx, "dev admin seeded",
		"email", adminEmail,
		"username", adminUsername,
		"trial_days", trialDays)
	return nil
}

func ensureAdminUser(ctx context.Context, d Deps, password string) (*model.User, bool, error) {
	existing, err := d.Users.GetByIdentifier(ctx, adminEmail)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, false, fmt.Errorf("look up dev admin: %w", err)
	}

	hash, err := d.Hasher.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash dev admin password: %w", err)
	}

	user, err := d.Users.Create(ctx, &model.CreateUserRequest{
		Email:        adminEmail,
		Username:     adminUsername,
		PasswordHash: hash,
		Role:         domainauth.RoleAdmin,
	})
	if err != nil {
		// Another instance may have seeded between lookup and insert.
		if apperrors.IsConflict(err) {
			existing, lookupErr := d.Users.GetByIdentifier(ctx, adminEmail)
			if lookupErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create dev admin: %w", err)
	}
	return user, true, nil
}

func completeSteps(ctx context.Context, d Deps, userID string) error {
	for _, step := range model.RequiredSteps() {
		_, err := d.Steps.UpsertStep(ctx, &model.UpsertStepRequest{
			UserID:   userID,
			StepName: step,
			Status:   model.StepStatusCompleted,
		})
		if err != nil {
			return fmt.Errorf("seed onboarding step %s: %w", step, err)
		}
	}
	return nil
}

func grantTrial(ctx context.Context, d Deps, userID string) error {
	now := time.Now()
	_, err := d.Grants.Create(ctx, &model.CreateGrantRequest{
		UserID:    userID,
		Type:      model.GrantTrial,
		StartDate: now,
		EndDate:   now.Add(trialDays * 24 * time.Hour),
	})
	if err != nil {
		return fmt.Errorf("seed trial grant: %w", err)
	}
	return nil
}
