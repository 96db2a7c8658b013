package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jetonapp/jeton/config"
	httpx "github.com/jetonapp/jeton/internal/http"
	"github.com/jetonapp/jeton/internal/metrics"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger

	// ErrCh, when set, receives the ListenAndServe error if the server
	// stops for any reason other than a graceful shutdown.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Onboarding:   cfg.Services.Onboarding,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	}
	if cfg.Services.Tokens != nil {
		services.Tokens = cfg.Services.Tokens
	}

	handler := buildHTTPHandler(logger, services, cfg.Services.Metrics)

	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.ErrCh)
}

// buildHTTPHandler wraps the router with middleware.
// Order (outermost first): Recover -> Logging -> AccessGate -> CSRF -> Router.
// The gate runs before CSRF so unauthenticated traffic is redirected before
// any token comparison.
func buildHTTPHandler(logger *slog.Logger, services httpx.RouterServices, sink *metrics.Statsd) http.Handler {
	h := httpx.NewRouter(services)
	h = httpx.CSRFProtection()(h)
	h = httpx.AccessGate()(h)
	if sink.Enabled() {
		h = httpx.Metrics(sink)(h)
	}
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				errCh <- err
			}
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
