package httpx

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/jetonapp/jeton/internal/errors"
	"github.com/jetonapp/jeton/internal/ports"
	"github.com/jetonapp/jeton/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SessionValidator
	Login(ctx context.Context, input service.LoginInput) (*service.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	Tokens  ports.TokenStrategy
	Cookies CookieManager
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the POST /auth/login body. Email and Username are
// interchangeable identifiers; Email wins when both are set.
type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *loginRequest) identifier() string {
	if req.Email != "" {
		return req.Email
	}
	return req.Username
}

// Login handles credential login.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		Identifier: req.identifier(),
		Password:   req.Password,
		IPAddress:  clientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.Cookies.Issue(w, r, result.Session)

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":       result.Session.Identity(),
		"csrf_token": result.Session.CSRFToken,
		"expires_at": result.Session.ExpiresAt,
	})
}

// Logout destroys the server-side session and clears cookies. Always 200:
// a missing or already-destroyed session is not the client's problem, and a
// store failure is logged rather than surfaced.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := ExtractSessionID(r); sessionID != "" {
		if err := h.Svc.Logout(r.Context(), sessionID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	h.Cookies.Clear(w, r)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the validated identity of the current session.
// GET /auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, apperrors.Unauthenticated("authentication required"))
		return
	}
	WriteJSON(w, http.StatusOK, session.Identity())
}

// refreshRequest is the POST /auth/refresh body.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a legacy token pair. The presented refresh token is
// verified by signature and expiry; a brand-new pair supersedes it.
// POST /auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Tokens == nil {
		WriteError(w, apperrors.NotFound("token refresh is not enabled"))
		return
	}

	var req refreshRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	pair, err := h.Tokens.Refresh(req.RefreshToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}
