package di

import (
	"context"
	"errors"

	"wsb/infras/kafka"
	"wsb/infras/otel"
	"wsb/infras/postgres"
	notifService "wsb/internal/domains/notification/service"
	notifWorker "wsb/internal/domains/notification/worker"
)

// Worker is the notification dispatch process.
type Worker struct {
	Pool  *notifWorker.Pool
	Kafka kafka.Client
	DB    *postgres.Connection
	Otel  otel.Otel
}

func (w *Worker) Close(ctx context.Context) error {
	return errors.Join(w.Kafka.Close(), w.DB.Close(), w.Otel.Shutdown(ctx))
}

// Operator backs the notify command line tool.
type Operator struct {
	Scheduler notifService.Scheduler
	DB        *postgres.Connection
}

func (o *Operator) Close() error {
	return o.DB.Close()
}
