// The worker binary runs only the outbox worker. It exists for deployments
// that scale the event pipeline separately from the API; gymgate worker is
// the same code path.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gymgate/gymgate/internal/app"
	"github.com/gymgate/gymgate/pkg/config"
	"github.com/gymgate/gymgate/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting gymgate worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := container.StartOutboxProcessor(ctx); err != nil {
		logger.Error("failed to start outbox processor", "error", err)
		os.Exit(1)
	}

	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				deleted, err := container.OutboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed", "deleted", deleted)
				}
			}
		}
	}()

	fmt.Println("gymgate worker running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("worker stopped")
}
