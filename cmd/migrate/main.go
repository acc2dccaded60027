package main

import (
	"os"

	"wsb/config"
	"wsb/helper"
	"wsb/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("migration action (up/down/drop/step-up) is required")
	}

	cfg := config.Get()

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
