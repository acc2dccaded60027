package main

import (
	"context"
	"fmt"
	"os"

	"wsb/config"
	"wsb/di"
	"wsb/internal/domains/notification/model"
	"wsb/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
	usage     = "usage: notify requeue-failed | sweep | rebuild | stats"
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg(usage)
	}

	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg, "notify")

	operator := di.InitializeOperator()
	defer func() { _ = operator.Close() }()

	ctx := context.Background()

	switch os.Args[1] {
	case "requeue-failed":
		requeued, err := operator.Scheduler.RequeueFailed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("requeue failed")
		}

		fmt.Printf("requeued %d failed notification(s)\n", requeued)
	case "sweep":
		swept, err := operator.Scheduler.Sweep(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("sweep failed")
		}

		fmt.Printf("returned %d orphaned notification(s) to pending\n", swept)
	case "rebuild":
		enrolled, err := operator.Scheduler.Rebuild(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("rebuild failed")
		}

		fmt.Printf("enrolled %d notification(s)\n", enrolled)
	case "stats":
		stats, err := operator.Scheduler.Stats(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("stats failed")
		}

		for _, status := range model.Statuses {
			fmt.Printf("%-10s %d\n", status, stats[status])
		}
	default:
		log.Fatal().Str("command", os.Args[1]).Msg(usage)
	}
}
