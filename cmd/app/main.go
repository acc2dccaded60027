package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wsb/config"
	"wsb/di"
	"wsb/helper"
	"wsb/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Workstation Booking API
// @version 1.0
// @description Reservation scheduling for shared instruments and workstations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg, "app")

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	http := di.InitializeService()

	if err := http.Serve(ctx); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped with error")
	}
}
