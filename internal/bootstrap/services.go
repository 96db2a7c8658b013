package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jetonapp/jeton/config"
	redisadapter "github.com/jetonapp/jeton/internal/adapters/redis"
	"github.com/jetonapp/jeton/internal/data"
	"github.com/jetonapp/jeton/internal/metrics"
	"github.com/jetonapp/jeton/internal/service"
)

// ServiceDeps contains the shared dependencies for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Onboarding *service.OnboardingService
	Tokens     *service.TokenService
	Users      *data.UserRepo
	Steps      *data.OnboardingRepo
	Grants     *data.GrantRepo
	Audit      *data.SessionAuditRepo
	Metrics    *metrics.Statsd
}

// NewServices wires repositories and services from shared dependencies.
// Tokens stays nil when no AUTH_JWT_SECRET is configured; the refresh
// endpoint is disabled in that case.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	users := data.NewUserRepo(deps.DB)
	steps := data.NewOnboardingRepo(deps.DB)
	grants := data.NewGrantRepo(deps.DB)
	audit := data.NewSessionAuditRepo(deps.DB)
	sessions := redisadapter.NewSessionStore(deps.RedisClient)

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:      users,
		Sessions:   sessions,
		Audit:      audit,
		SessionTTL: deps.Config.Auth.SessionTTL,
		BcryptCost: deps.Config.Auth.BcryptCost,
		Logger:     logger,
	})

	onboardingSvc := service.NewOnboardingService(service.OnboardingServiceOptions{
		Users:  users,
		Steps:  steps,
		Grants: grants,
		Logger: logger,
	})

	var tokenSvc *service.TokenService
	if deps.Config.Auth.JWTSecret != "" {
		var err error
		tokenSvc, err = service.NewTokenService(service.TokenServiceOptions{
			Secret:     deps.Config.Auth.JWTSecret,
			Issuer:     deps.Config.Auth.JWTIssuer,
			AccessTTL:  deps.Config.Auth.AccessTokenTTL,
			RefreshTTL: deps.Config.Auth.RefreshTokenTTL,
		})
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, token refresh endpoint disabled")
	}

	sink, err := metrics.NewStatsd(metrics.Config{
		Enabled: deps.Config.Metrics.Enabled,
		Addr:    deps.Config.Metrics.Addr,
		Prefix:  deps.Config.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect statsd: %w", err)
	}

	return &ServiceContainer{
		Auth:       authSvc,
		Onboarding: onboardingSvc,
		Tokens:     tokenSvc,
		Users:      users,
		Steps:      steps,
		Grants:     grants,
		Audit:      audit,
		Metrics:    sink,
	}, nil
}
