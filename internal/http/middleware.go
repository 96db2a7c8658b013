package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// SessionValidator loads and validates a full session record by id.
// *service.AuthService satisfies this.
type SessionValidator interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

const defaultHTTPStatus = http.StatusOK

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession returns the full session validator middleware: cookie →
// store lookup → expiry check → session in request context. Missing or
// invalid sessions are a 401; a failing session store surfaces as a 500.
// Mandatory on every route that touches tenant data; the edge gate's
// cookie-presence check is not a substitute.
func RequireSession(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := validateSessionFromRequest(r, validator)
			if err != nil {
				WriteError(w, err)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that requires at least the given role.
// Unauthenticated requests get 401; authenticated requests below the required
// role get 403.
func RequireRole(validator SessionValidator, requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := validateSessionFromRequest(r, validator)
			if err != nil {
				WriteError(w, err)
				return
			}

			if !hasRequiredRole(session.Role, requiredRole) {
				WriteError(w, apperrors.Forbidden("insufficient permissions"))
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateSessionFromRequest resolves the request's session cookie into a
// validated session record. Auth failures come back as unauthenticated
// errors; store faults keep their original classification so WriteError can
// map them to a server error instead of a 401.
func validateSessionFromRequest(r *http.Request, validator SessionValidator) (*domainauth.Session, error) {
	sessionID := ExtractSessionID(r)
	if sessionID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}

	session, err := validator.GetSession(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// hasRequiredRole checks if the user's role meets the required role.
// Role hierarchy: Guest < Staff = Teacher < Admin.
func hasRequiredRole(userRole, requiredRole domainauth.Role) bool {
	roleHierarchy := map[domainauth.Role]int{
		domainauth.RoleGuest:   0,
		domainauth.RoleStaff:   1,
		domainauth.RoleTeacher: 1,
		domainauth.RoleAdmin:   2,
	}

	userLevel, userExists := roleHierarchy[userRole]
	requiredLevel, requiredExists := roleHierarchy[requiredRole]

	if !userExists || !requiredExists {
		return false
	}

	return userLevel >= requiredLevel
}
