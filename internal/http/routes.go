package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jetonapp/jeton/internal/ports"
	"github.com/jetonapp/jeton/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Onboarding *service.OnboardingService
	Tokens     ports.TokenStrategy
	// Configuration
	CookieDomain string
	Logger       *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the API router. The access gate, CSRF,
// logging, and recovery middleware wrap it in bootstrap.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	cookies := CookieManager{Domain: services.CookieDomain}
	authHandlers := &AuthHandlers{
		Svc:     services.Auth,
		Tokens:  services.Tokens,
		Cookies: cookies,
		Logger:  services.Logger,
	}
	onboardingHandlers := &OnboardingHandlers{Svc: services.Onboarding}

	registerAuthRoutes(mux, authHandlers, services.Auth)
	registerOnboardingRoutes(mux, onboardingHandlers, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, validator SessionValidator) {
	requireSession := RequireSession(validator)

	mux.Handle("POST /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /auth/me", requireSession(http.HandlerFunc(h.Me)))
	mux.Handle("POST /auth/refresh", http.HandlerFunc(h.Refresh))
}

func registerOnboardingRoutes(mux *http.ServeMux, h *OnboardingHandlers, validator SessionValidator) {
	requireSession := RequireSession(validator)

	mux.Handle("GET /onboarding/status", requireSession(http.HandlerFunc(h.Status)))
	mux.Handle("POST /onboarding/step", requireSession(http.HandlerFunc(h.UpdateStep)))
	mux.Handle("POST /onboarding/complete", requireSession(http.HandlerFunc(h.Complete)))
	mux.Handle("GET /access/dashboard", requireSession(http.HandlerFunc(h.Dashboard)))
}
