package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gymgate/gymgate/internal/app"
	"github.com/gymgate/gymgate/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the management API and the scanner gateway",
	Long: `Starts the HTTP management API and the websocket scanner gateway
in one process. Both shut down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			if err := container.StartOutboxProcessor(ctx); err != nil {
				return err
			}
		}

		gatewaySrv := &http.Server{
			Addr:              cfg.ScannerAddr,
			Handler:           container.GatewayServer.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 2)
		go func() {
			if err := container.APIServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("api server: %w", err)
			}
		}()
		go func() {
			logger.Info("starting scanner gateway", "addr", cfg.ScannerAddr)
			if err := gatewaySrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("scanner gateway: %w", err)
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := gatewaySrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("gateway shutdown error", "error", err)
		}
		return container.APIServer.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
