package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// fakeValidator returns a fixed session for known ids.
type fakeValidator struct {
	sessions map[string]*domainauth.Session
}

func (f *fakeValidator) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, apperrors.Unauthenticated("session not found")
}

func validatorWith(role domainauth.Role) *fakeValidator {
	return &fakeValidator{sessions: map[string]*domainauth.Session{
		"sess-valid": {
			ID:        "sess-valid",
			UserID:    "user-1",
			Role:      role,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}
}

func TestRequireSession_NoCookie(t *testing.T) {
	handler := RequireSession(validatorWith(domainauth.RoleStaff))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSession_UnknownSession(t *testing.T) {
	handler := RequireSession(validatorWith(domainauth.RoleStaff))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// faultyValidator simulates a session store outage.
type faultyValidator struct{ err error }

func (f *faultyValidator) GetSession(context.Context, string) (*domainauth.Session, error) {
	return nil, f.err
}

func TestRequireSession_StoreFaultIs500NotUnauthorized(t *testing.T) {
	validator := &faultyValidator{err: errors.New("redis: connection refused")}
	handler := RequireSession(validator)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-valid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestRequireRole_StoreFaultIs500NotUnauthorized(t *testing.T) {
	validator := &faultyValidator{err: apperrors.Wrap(
		errors.New("redis: connection refused"), apperrors.ErrCodeInternal, "session store unavailable")}
	handler := RequireRole(validator, domainauth.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-valid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireSession_AttachesSessionToContext(t *testing.T) {
	var got *domainauth.Session
	handler := RequireSession(validatorWith(domainauth.RoleStaff))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = GetUserSessionFromContext(r.Context())
		}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-valid"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		userRole domainauth.Role
		required domainauth.Role
		status   int
	}{
		{"admin can access admin routes", domainauth.RoleAdmin, domainauth.RoleAdmin, http.StatusOK},
		{"admin can access staff routes", domainauth.RoleAdmin, domainauth.RoleStaff, http.StatusOK},
		{"staff cannot access admin routes", domainauth.RoleStaff, domainauth.RoleAdmin, http.StatusForbidden},
		{"teacher can access staff routes", domainauth.RoleTeacher, domainauth.RoleStaff, http.StatusOK},
		{"guest cannot access staff routes", domainauth.RoleGuest, domainauth.RoleStaff, http.StatusForbidden},
		{"unknown role denied", domainauth.Role("superuser"), domainauth.RoleStaff, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(validatorWith(tt.userRole), tt.required)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/settings/school", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-valid"})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireRole_NoSessionIs401(t *testing.T) {
	handler := RequireRole(validatorWith(domainauth.RoleAdmin), domainauth.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/settings/school", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecover(t *testing.T) {
	logger := discardLogger()
	handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_PreservesStatus(t *testing.T) {
	handler := Logging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
