package config

import "time"

const (
	minBcryptCost = 10
	maxBcryptCost = 16

	minSessionTTL = 15 * time.Minute
	maxSessionTTL = 30 * 24 * time.Hour
)

// AuthConfig groups all authentication-related configuration.
//
// JWTSecret has no default: deployments using the legacy token endpoint must
// supply it via AUTH_JWT_SECRET. Secrets are never hardcoded.
type AuthConfig struct {
	// SessionTTL is how long a server-side session stays valid.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// BcryptCost is the adaptive cost factor used when hashing passwords
	// for storage. Comparison cost is encoded in the stored hash.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// JWTSecret signs access and refresh tokens on the legacy token path.
	JWTSecret string `env:"JWT_SECRET"`

	// JWTIssuer is the issuer claim stamped into signed tokens.
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"jeton"`

	// AccessTokenTTL is the lifetime of a signed access token.
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// RefreshTokenTTL is the lifetime of a signed refresh token.
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// DevSeedPassword is assigned to the seeded development admin account.
	// Seeding is skipped when empty. Ignored outside dev mode.
	DevSeedPassword string `env:"DEV_SEED_PASSWORD"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.BcryptCost < minBcryptCost {
		a.BcryptCost = minBcryptCost
	}
	if a.BcryptCost > maxBcryptCost {
		a.BcryptCost = maxBcryptCost
	}
	if a.SessionTTL < minSessionTTL {
		a.SessionTTL = minSessionTTL
	}
	if a.SessionTTL > maxSessionTTL {
		a.SessionTTL = maxSessionTTL
	}
	if a.AccessTokenTTL <= 0 {
		a.AccessTokenTTL = 15 * time.Minute
	}
	if a.RefreshTokenTTL <= a.AccessTokenTTL {
		a.RefreshTokenTTL = 168 * time.Hour
	}
}
