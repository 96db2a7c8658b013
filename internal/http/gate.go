package httpx

import (
	"net/http"
	"net/url"
	"strings"
)

// RouteClass categorizes a path for the edge access gate.
type RouteClass int

const (
	// RoutePublic is reachable with or without a session cookie.
	RoutePublic RouteClass = iota
	// RouteAuthOnly is for signed-out users only (login, signup). A caller
	// holding a session cookie is bounced to the landing page.
	RouteAuthOnly
	// RouteUnlocked requires a session cookie but no onboarding/plan checks
	// (the onboarding and payment flows themselves).
	RouteUnlocked
	// RouteProtected requires a session cookie; handlers behind it perform
	// full validation and policy checks.
	RouteProtected
)

// routeClassification is the static gate configuration. Classes are evaluated
// in a fixed priority order: public, auth-only, unlocked, protected. Within a
// class the first matching pattern wins.
//
// /auth/me and /auth/logout are deliberately unclassified: they carry their
// own session handling (401 from the full validator, logout always 200), so
// the gate must not bounce cookie-less callers before the handler answers.
//
// Pattern forms:
//   - "/path"    exact match, or prefix match where the path continues with "/"
//   - "/path/*"  explicit wildcard: any path under the prefix
var routeClassification = []struct {
	class    RouteClass
	patterns []string
}{
	{RoutePublic, []string{
		"/",
		"/auth/refresh",
		"/about",
		"/pricing",
	}},
	{RouteAuthOnly, []string{
		"/auth/login",
		"/auth/signup",
		"/auth/forgot-password",
		"/login",
		"/signup",
		"/forgot-password",
	}},
	{RouteUnlocked, []string{
		"/onboarding/*",
		"/onboarding",
		"/payment/*",
	}},
	{RouteProtected, []string{
		"/dashboard/*",
		"/dashboard",
		"/students/*",
		"/staff/*",
		"/fees/*",
		"/settings/*",
		"/reports/*",
		"/access/*",
	}},
}

// gateExcludedPrefixes bypass the gate entirely: static assets, health
// probes, and the API namespace self-authenticate.
var gateExcludedPrefixes = []string{"/static/", "/api/", "/healthz"}

const defaultLandingPage = "/dashboard"

// GateDecision is the outcome of classifying one request at the edge.
type GateDecision struct {
	Class      RouteClass
	Matched    bool
	Allowed    bool
	RedirectTo string
}

// matchPattern reports whether a classification pattern matches the path.
func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(path, prefix+"/")
	}
	if path == pattern {
		return true
	}
	// "/dashboard" also covers "/dashboard/settings" but not "/dashboards".
	return pattern != "/" && strings.HasPrefix(path, pattern+"/")
}

// Classify returns the route class for a path, with Matched=false for paths
// no classification covers.
func Classify(path string) (RouteClass, bool) {
	for _, entry := range routeClassification {
		for _, pattern := range entry.patterns {
			if matchPattern(pattern, path) {
				return entry.class, true
			}
		}
	}
	return RoutePublic, false
}

// Decide computes the gate outcome for a path given only cookie presence.
// It performs no store lookup: a forged cookie passes the gate and fails at
// the full validator behind it. Unmatched paths are allowed.
func Decide(path string, hasSession bool) GateDecision {
	class, matched := Classify(path)
	decision := GateDecision{Class: class, Matched: matched, Allowed: true}
	if !matched {
		return decision
	}

	switch class {
	case RouteAuthOnly:
		if hasSession {
			decision.Allowed = false
			decision.RedirectTo = defaultLandingPage
		}
	case RouteUnlocked, RouteProtected:
		if !hasSession {
			decision.Allowed = false
			decision.RedirectTo = "/auth/login?redirect=" + url.QueryEscape(path)
		}
	case RoutePublic:
	}

	return decision
}

// gateExcluded reports whether the path bypasses the gate.
func gateExcluded(path string) bool {
	for _, prefix := range gateExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return path == "/healthz"
}

// AccessGate returns the edge middleware: a cheap cookie-presence check that
// runs before any handler and never touches the session store.
func AccessGate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gateExcluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			decision := Decide(r.URL.Path, HasSessionCookie(r))
			if !decision.Allowed {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
