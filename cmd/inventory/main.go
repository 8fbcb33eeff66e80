package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"inventory/internal/cli"
	"inventory/internal/config"
	apphttp "inventory/internal/http"
	"inventory/internal/log"
	"inventory/internal/metrics"
	"inventory/internal/report"
	"inventory/internal/services"
	"inventory/internal/sheets/memory"
	"inventory/internal/workspace"
)

func main() {
	envErr := cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info").Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentApp)
	if envErr != nil {
		logger.Warn("Ignoring env file", log.FieldError, envErr)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	formatter, err := report.NewFormatter(cfg.Locale, cfg.Currency, cfg.CurrencySymbolAfter)
	if err != nil {
		return fmt.Errorf("initialize formatter: %w", err)
	}

	loader, err := services.NewFileLoader(cfg.Policy())
	if err != nil {
		return fmt.Errorf("initialize loader: %w", err)
	}

	m := metrics.New()
	sessions := workspace.NewRegistry(cfg.MaxSessions, cfg.SessionTTL)
	defer sessions.Close()
	sessions.OnExpire(func(removed int) {
		m.SetWorkspaces(sessions.Len())
		logger.Debug("Expired workspaces removed", "removed", removed)
	})

	svc := services.NewDashboardService(loader, memory.NewDemo(), formatter, m, logger)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               net.JoinHostPort("", cfg.Port),
		MaxUploadBytes:     cfg.MaxUploadBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		SessionTTL:         cfg.SessionTTL,
		Metrics:            m,
	}, svc, sessions, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting inventory server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			log.FieldPolicy, cfg.Policy().String(),
			"locale", cfg.Locale,
			"currency", cfg.Currency,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
