package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/jetonapp/jeton/internal/domain/auth"
)

const (
	// SessionCookieName is the canonical session cookie. Its value is the
	// opaque session id; the edge gate checks only its presence.
	SessionCookieName = "session_id"
	// CSRFCookieName holds the double-submit CSRF token. It must stay
	// readable by scripts so clients can echo it back in a header.
	CSRFCookieName = "csrf_token"
)

// CookieManager issues and clears the session cookie pair.
type CookieManager struct {
	Domain string
}

// Issue sets the session and CSRF cookies with a lifetime matching the
// session's expiry.
func (c CookieManager) Issue(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	secure := isSecureRequest(r)
	maxAge := int(time.Until(s.ExpiresAt).Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    s.CSRFToken,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

// Clear expires both cookies. Clearing cookies that were never set is harmless,
// so logout stays idempotent.
func (c CookieManager) Clear(w http.ResponseWriter, r *http.Request) {
	secure := isSecureRequest(r)
	for _, name := range []string{SessionCookieName, CSRFCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   c.Domain,
			HttpOnly: name == SessionCookieName,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0).UTC(),
		})
	}
}

// ExtractSessionID reads the session id from the request cookie. A missing
// cookie yields the empty string, never an error.
func ExtractSessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// HasSessionCookie reports whether a non-empty session cookie is present.
// This is the gate's only signal; the cookie value is not validated here.
func HasSessionCookie(r *http.Request) bool {
	return ExtractSessionID(r) != ""
}

// isSecureRequest reports whether the request arrived over HTTPS, directly
// or via a forwarding proxy.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
