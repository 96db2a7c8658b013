package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
)

func testSession() domainauth.Session {
	return domainauth.Session{
		ID:        "sess-abc",
		UserID:    "user-1",
		Role:      domainauth.RoleAdmin,
		CSRFToken: "csrf-xyz",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestCookieManager_Issue(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	CookieManager{}.Issue(rec, req, testSession())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	session := findCookie(t, cookies, SessionCookieName)
	assert.Equal(t, "sess-abc", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.Equal(t, "/", session.Path)
	assert.InDelta(t, 3600, session.MaxAge, 5)

	csrf := findCookie(t, cookies, CSRFCookieName)
	assert.Equal(t, "csrf-xyz", csrf.Value)
	assert.False(t, csrf.HttpOnly, "CSRF cookie must stay script-readable for double-submit")
	assert.Equal(t, http.SameSiteStrictMode, csrf.SameSite)
}

func TestCookieManager_SecureBehindProxy(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Forwarded-Proto", "https")

	CookieManager{}.Issue(rec, req, testSession())

	for _, c := range rec.Result().Cookies() {
		assert.True(t, c.Secure, "cookie %q", c.Name)
	}
}

func TestCookieManager_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)

	CookieManager{}.Clear(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Empty(t, c.Value, "cookie %q", c.Name)
		assert.Equal(t, -1, c.MaxAge, "cookie %q", c.Name)
	}
}

func TestExtractSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	assert.Empty(t, ExtractSessionID(req))
	assert.False(t, HasSessionCookie(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-abc"})
	assert.Equal(t, "sess-abc", ExtractSessionID(req))
	assert.True(t, HasSessionCookie(req))
}
