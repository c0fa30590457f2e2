package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/gitmonitor/internal/adapter/driven/github"
	httphandler "github.com/ericfisherdev/gitmonitor/internal/adapter/driving/http"
	"github.com/ericfisherdev/gitmonitor/internal/application"
	"github.com/ericfisherdev/gitmonitor/internal/config"
	"github.com/ericfisherdev/gitmonitor/internal/telemetry"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gitmonitor",
		Short:         "Enforce repository policies from GitHub App webhooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSignCmd(), newCheckConfigCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level() // validated by config.Load
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newDispatcher wires the policy handlers. It returns nil when the App
// credentials are incomplete; the webhook endpoint then answers 500.
func newDispatcher(cfg *config.Config, logger *slog.Logger) (httphandler.Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		logger.Warn("webhooks disabled until github app credentials are configured", "error", err)
		return nil, nil
	}

	clients, err := githubadapter.NewAppClientFactory(cfg.GitHubAppID, cfg.PrivateKey(),
		githubadapter.WithAPIBaseURL(cfg.GitHubAPIURL),
	)
	if err != nil {
		return nil, err
	}

	registry := application.DefaultRegistry(application.HandlerDeps{
		Settings: githubadapter.NewRepoSettingsProvider(clients, cfg.SettingsPath),
		Clients:  clients,
		Logger:   logger,
	})
	logger.Info("policy handlers registered", "events", registry.Events())

	return application.NewDispatchService(registry, logger), nil
}

func run(ctx context.Context) error {
	// 1. Load configuration. App credentials may still be missing.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"github_api_url", cfg.GitHubAPIURL,
		"settings_path", cfg.SettingsPath,
		"tracing_enabled", cfg.TracingEnabled,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing.
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("gitmonitor", os.Stdout, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	// 4. Wire the GitHub adapters and the policy handlers.
	dispatcher, err := newDispatcher(cfg, logger)
	if err != nil {
		return err
	}

	// 5. HTTP server.
	handler := httphandler.NewServeMux(httphandler.NewHandler(dispatcher, cfg, logger), logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 6. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 7. Graceful shutdown with 10s timeout for in-flight deliveries.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
