package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
	"github.com/jetonapp/jeton/internal/domain/model"
	mocks "github.com/jetonapp/jeton/internal/mocks/auth"
	"github.com/jetonapp/jeton/internal/ports"
	"github.com/jetonapp/jeton/internal/service"
)

func testTokenClaims() ports.TokenClaims {
	schoolID := "school-1"
	return ports.TokenClaims{
		UserID:   "user-head",
		Role:     domainauth.RoleAdmin,
		SchoolID: &schoolID,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires real services over in-memory stores for handler tests.
type testEnv struct {
	router   http.Handler
	auth     *service.AuthService
	tokens   ports.TokenStrategy
	users    *mocks.MemoryUserRepo
	steps    *mocks.MemoryOnboardingRepo
	grants   *mocks.MemoryGrantRepo
	sessions *mocks.MemorySessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := mocks.NewMemoryUserRepo()
	sessions := mocks.NewMemorySessionStore()
	steps := mocks.NewMemoryOnboardingRepo()
	grants := mocks.NewMemoryGrantRepo()

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Users:      users,
		Sessions:   sessions,
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
		Logger:     discardLogger(),
	})
	onboardingSvc := service.NewOnboardingService(service.OnboardingServiceOptions{
		Users:  users,
		Steps:  steps,
		Grants: grants,
		Logger: discardLogger(),
	})
	tokenSvc, err := service.NewTokenService(service.TokenServiceOptions{
		Secret: "handler-test-secret",
		Issuer: "jeton",
	})
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		Auth:       authSvc,
		Onboarding: onboardingSvc,
		Tokens:     tokenSvc,
		Logger:     discardLogger(),
	})

	return &testEnv{
		router:   router,
		auth:     authSvc,
		tokens:   tokenSvc,
		users:    users,
		steps:    steps,
		grants:   grants,
		sessions: sessions,
	}
}

// addUser seeds a user with the given password and returns it.
func (e *testEnv) addUser(t *testing.T, email, username, password string, role domainauth.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		ID:           "user-" + username,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	e.users.Add(u)
	return u
}

// login performs a real login and returns the minted session.
func (e *testEnv) login(t *testing.T, identifier, password string) domainauth.Session {
	t.Helper()
	result, err := e.auth.Login(context.Background(), service.LoginInput{
		Identifier: identifier,
		Password:   password,
	})
	require.NoError(t, err)
	return result.Session
}

// doJSON runs a JSON request through the router, attaching the session
// cookie when sessionID is non-empty.
func (e *testEnv) doJSON(t *testing.T, method, path, sessionID string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a recorded JSON response body.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
