package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wsb/config"
	"wsb/di"
	"wsb/shared/logger"

	"github.com/rs/zerolog/log"
)

const closeTimeout = 10 * time.Second

func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	log.Info().
		Int("workers", cfg.Notification.Workers).
		Int("batch", cfg.Notification.Batch).
		Msg("notification worker started")

	err := worker.Pool.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("notification worker stopped with error")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := worker.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("failed to release worker resources")
	}

	log.Info().Msg("notification worker stopped")
}
