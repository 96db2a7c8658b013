package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jetonapp/jeton/config"
	"github.com/jetonapp/jeton/internal/core"
)

const (
	auditRetention     = 90 * 24 * time.Hour
	auditSweepInterval = 24 * time.Hour
)

// RunConfig carries everything the service runtime needs.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// Run starts the HTTP server and background workers, then blocks until a
// shutdown signal arrives or one of them fails. The HTTP server is drained
// gracefully before Run returns.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("run config is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if cerr := cfg.Services.Metrics.Close(); cerr != nil {
			logger.Warn("close statsd failed", "error", cerr)
		}
	}()

	serveErr := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    serveErr,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case err := <-serveErr:
			return err
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		return runAuditSweeper(gctx, cfg.Services.Audit, logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(context.WithoutCancel(gctx), server, logger)
	})

	return g.Wait()
}

// runAuditSweeper prunes login audit rows past the retention window.
func runAuditSweeper(ctx context.Context, audit core.SessionAuditRepository, logger *slog.Logger) error {
	ticker := time.NewTicker(auditSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cutoff := time.Now().Add(-auditRetention)
			deleted, err := audit.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				logger.ErrorContext(ctx, "audit retention sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.InfoContext(ctx, "audit retention sweep completed",
					"deleted", deleted,
					"cutoff", cutoff.Format(time.RFC3339))
			}
		}
	}
}
