package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	genomeembed "github.com/genomepuzzle/site/embed"
	"github.com/genomepuzzle/site/internal/config"
	"github.com/genomepuzzle/site/internal/logging"
	"github.com/genomepuzzle/site/internal/server"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the site",
		Args:  cobra.NoArgs,
	}
	cfg := config.Register(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return serve(ctx, cfg, logging.Setup(os.Stdout, slog.LevelInfo))
	}
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"listen", cfg.Listen,
		"base_url", cfg.BaseURL,
		"public_dir", cfg.PublicDir,
		"cache_ttl", cfg.CacheTTL.String(),
		"cache_max_size", cfg.CacheMaxSize,
		"font_family", cfg.FontFamily,
		"assembly_url", cfg.AssemblyURL,
		"metrics", cfg.MetricsEnabled,
	)

	srv, err := server.New(cfg, version, genomeembed.Assets, os.DirFS(cfg.PublicDir), logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server started", "listen", cfg.Listen, "version", version)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
