package worker

import (
	"context"
	"time"

	"wsb/config"
	notifService "wsb/internal/domains/notification/service"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Pool runs the dispatch loops and the orphan sweeper until the context ends.
type Pool struct {
	dispatcher    Dispatcher
	scheduler     notifService.Scheduler
	workers       int
	batch         int
	pollInterval  time.Duration
	sweepInterval time.Duration
}

func NewPool(dispatcher Dispatcher, scheduler notifService.Scheduler, cfg *config.Config) *Pool {
	return &Pool{
		dispatcher:    dispatcher,
		scheduler:     scheduler,
		workers:       max(cfg.Notification.Workers, 1),
		batch:         cfg.Notification.Batch,
		pollInterval:  time.Duration(max(cfg.Notification.PollIntervalSeconds, 1)) * time.Second,
		sweepInterval: time.Duration(max(cfg.Notification.SweepIntervalSeconds, 1)) * time.Second,
	}
}

// Run blocks until ctx is cancelled and every loop has returned.
func (p *Pool) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for i := range p.workers {
		group.Go(func() error {
			p.dispatchLoop(ctx, i)

			return nil
		})
	}

	group.Go(func() error {
		p.sweepLoop(ctx)

		return nil
	})

	log.Info().Int("workers", p.workers).Dur("pollInterval", p.pollInterval).Msg("notification worker pool started")

	err := group.Wait()

	log.Info().Msg("notification worker pool stopped")

	return err //nolint:wrapcheck
}

func (p *Pool) dispatchLoop(ctx context.Context, worker int) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		// a full batch means more may be due, so drain before sleeping
		for ctx.Err() == nil {
			claimed, err := p.dispatcher.RunOnce(ctx)
			if err != nil {
				log.Error().Err(err).Int("worker", worker).Msg("dispatch iteration failed")

				break
			}

			if claimed < p.batch || claimed == 0 {
				break
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Pool) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		if _, err := p.scheduler.Sweep(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("orphan sweep failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
