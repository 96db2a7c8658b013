package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	apperrors "github.com/jetonapp/jeton/internal/errors"
)

// CSRFHeaderName is the header clients echo the csrf_token cookie into
// (canonical form).
const CSRFHeaderName = "X-Csrf-Token"

// csrfFormFieldName is the form field fallback for standard form posts.
const csrfFormFieldName = "csrf_token"

// CSRFProtection returns a middleware enforcing the double-submit cookie
// pattern on state-changing requests (POST, PUT, DELETE, PATCH). The token is
// minted at login, bound 1:1 to the session, and set as the csrf_token cookie;
// clients submit it back via the X-Csrf-Token header or a csrf_token form
// field. GET, HEAD, OPTIONS, and TRACE are exempt, as are requests without a
// session cookie (login itself must stay reachable).
func CSRFProtection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresCSRFValidation(r.Method) || !HasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" || !validateCSRFToken(r, cookie.Value) {
				WriteError(w, apperrors.Forbidden("CSRF token validation failed"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requiresCSRFValidation returns true if the HTTP method requires CSRF validation.
// Safe methods (GET, HEAD, OPTIONS, TRACE) are exempt.
func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// validateCSRFToken compares the submitted token against the cookie value.
// It checks the X-Csrf-Token header first, then the form field for
// form-encoded bodies. Uses constant-time comparison to prevent timing
// side channels.
func validateCSRFToken(r *http.Request, cookieToken string) bool {
	headerToken := r.Header.Get(CSRFHeaderName)
	if headerToken != "" {
		return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return false
		}
		formToken := r.FormValue(csrfFormFieldName)
		if formToken != "" {
			return subtle.ConstantTimeCompare([]byte(formToken), []byte(cookieToken)) == 1
		}
	}

	return false
}
