package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/migratum/gapscan/internal/server"
	"github.com/migratum/gapscan/pkg/logging"
)

func newServeCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gap-detection HTTP API",
		Long: `Serve starts the read-only HTTP API.

Endpoints:
  GET /health                          Liveness check
  GET /api/v1/catalog/fields           The active field catalog
  GET /api/v1/assets/{id}/gaps         Scan one asset
  GET /api/v1/assets/{id}/prefill      Pre-fill suggestions for one asset

Asset endpoints require X-Tenant-ID and X-Project-ID headers.`,
		Example: `  gapscan serve
  gapscan serve --port 3000
  GAPSCAN_DATABASE_DSN=postgres://... gapscan serve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, cleanup, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			logger := logging.Default()
			srv, err := server.New(backend, catalog, server.Config{
				Workers:   cfg.Scan.Workers,
				QueryRate: cfg.Scan.QueryRate,
			}, server.WithLogger(logger))
			if err != nil {
				return err
			}

			addr := cfg.Server.Addr()
			if cmd.Flags().Changed("host") || cmd.Flags().Changed("port") {
				addr = fmt.Sprintf("%s:%d", host, port)
			}

			httpServer := &http.Server{
				Addr:         addr,
				Handler:      srv.Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			return runWithGracefulShutdown(httpServer)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "bind address")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port")

	return cmd
}

// runWithGracefulShutdown serves until SIGINT or SIGTERM, then drains
// connections within the configured shutdown timeout.
func runWithGracefulShutdown(httpServer *http.Server) error {
	logger := logging.Default()
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}
