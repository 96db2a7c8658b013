package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/service; orchestration
// in internal/service and internal/http.

import (
	"context"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get for missing or expired
// sessions. Any other Get error is a store fault, not a miss, and callers
// must keep the two apart.
var ErrSessionNotFound error = sessionNotFoundError{}

type sessionNotFoundError struct{}

func (sessionNotFoundError) Error() string { return "session not found" }

// SessionStore persists and retrieves user sessions.
// Get returns ErrSessionNotFound for missing or expired sessions; expired
// records are treated as absent even if still physically present.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// TokenPair is a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims is the identity snapshot carried inside signed tokens.
type TokenClaims struct {
	UserID   string
	Role     domainauth.Role
	SchoolID *string
}

// TokenStrategy is the legacy stateless token path, kept for migration
// compatibility alongside the canonical session path. Refresh performs
// rotation: every successful call supersedes the presented refresh token.
type TokenStrategy interface {
	Generate(claims TokenClaims) (TokenPair, error)
	VerifyRefresh(token string) (TokenClaims, error)
	Refresh(token string) (TokenPair, error)
}
