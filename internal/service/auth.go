package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jetonapp/jeton/internal/core"
	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	"github.com/jetonapp/jeton/internal/domain/model"
	apperrors "github.com/jetonapp/jeton/internal/errors"
	"github.com/jetonapp/jeton/internal/ports"
)

const sessionTokenBytes = 32 // 256 bits of entropy per session id / CSRF token

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      core.UserRepository
	Sessions   ports.SessionStore
	Audit      core.SessionAuditRepository // optional; best-effort metadata trail
	SessionTTL time.Duration
	BcryptCost int
	Logger     *slog.Logger
}

// AuthService orchestrates credential verification and session lifecycle.
type AuthService struct {
	users      core.UserRepository
	sessions   ports.SessionStore
	audit      core.SessionAuditRepository
	sessionTTL time.Duration
	bcryptCost int
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cost := opts.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Sessions,
		audit:      opts.Audit,
		sessionTTL: ttl,
		bcryptCost: cost,
		logger:     logger,
	}
}

// HashPassword hashes a plaintext password for storage using the configured
// adaptive cost factor.
func (s *AuthService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.ValidationField("password", "password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyCredentials validates an identifier/password pair and returns the
// matching user. Unknown identifier and wrong password both produce the same
// generic InvalidCredentials failure.
func (s *AuthService) VerifyCredentials(ctx context.Context, identifier, password string) (*model.User, error) {
	if identifier == "" || password == "" {
		return nil, apperrors.InvalidCredentials()
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if compareErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); compareErr != nil {
		return nil, apperrors.InvalidCredentials()
	}

	return user, nil
}

// LoginInput groups parameters for Login.
type LoginInput struct {
	Identifier string
	Password   string
	IPAddress  string
	UserAgent  string
}

// LoginResult contains the minted session after a successful login.
type LoginResult struct {
	Session domainauth.Session
}

// Login verifies credentials, mints a session with a fresh CSRF token, and
// persists it. The metadata and last-login writes are best-effort: their
// failure is logged but never fails the login.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.VerifyCredentials(ctx, input.Identifier, input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := domainauth.Session{
		ID:        newOpaqueToken(),
		UserID:    user.ID,
		SchoolID:  user.SchoolID,
		Role:      user.Role,
		CSRFToken: newOpaqueToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	if touchErr := s.users.TouchLastLogin(ctx, user.ID, now); touchErr != nil {
		s.logger.WarnContext(ctx, "last-login update failed", "user_id", user.ID, "error", touchErr)
	}
	s.TouchMetadata(ctx, session, input.IPAddress, input.UserAgent)

	return &LoginResult{Session: session}, nil
}

// TouchMetadata records session IP/user-agent metadata. Best-effort: failures
// are logged as warnings and never surfaced to the caller.
func (s *AuthService) TouchMetadata(ctx context.Context, session domainauth.Session, ip, userAgent string) {
	if s.audit == nil {
		return
	}
	entry := &model.SessionAuditEntry{
		SessionKey: sessionKey(session.ID),
		UserID:     session.UserID,
		IPAddress:  ip,
		UserAgent:  userAgent,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "session audit write failed", "user_id", session.UserID, "error", err)
	}
}

var errSessionExpired = apperrors.Unauthenticated("session expired")

// GetSession retrieves and validates a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.Unauthenticated("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// A missing session is an auth failure. Anything else is a store
		// fault and must not masquerade as one.
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, apperrors.Unauthenticated("session not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "session store unavailable")
	}

	// Check if session is expired
	if session.Expired(time.Now()) {
		// Clean up expired session
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// newOpaqueToken creates a cryptographically secure random URL-safe token.
func newOpaqueToken() string {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure means the process cannot mint identifiers at all.
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// sessionKey digests a session id for audit storage; the raw id is never
// written to durable storage or logs.
func sessionKey(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}
