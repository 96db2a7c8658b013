package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jetonapp/jeton/config"
	"github.com/jetonapp/jeton/internal/devseed"
)

// SeedDevData populates the development admin account. Callers gate this on
// dev mode; it is never invoked in production configurations.
func SeedDevData(ctx context.Context, cfg *config.AppConfig, services *ServiceContainer, logger *slog.Logger) error {
	return devseed.Run(ctx, devseed.Deps{
		Users:      services.Users,
		Steps:      services.Steps,
		Grants:     services.Grants,
		Onboarding: services.Onboarding,
		Hasher:     services.Auth,
		Logger:     logger,
	}, cfg.Auth.DevSeedPassword)
}
