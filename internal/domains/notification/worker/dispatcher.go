package worker

//go:generate go run go.uber.org/mock/mockgen -source=./dispatcher.go -destination=../mocks/dispatcher_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"wsb/config"
	"wsb/infras/otel"
	catalogService "wsb/internal/domains/catalog/service"
	"wsb/internal/domains/notification/channel"
	"wsb/internal/domains/notification/model"
	"wsb/internal/domains/notification/repository"
	resModel "wsb/internal/domains/reservation/model"
	resRepo "wsb/internal/domains/reservation/repository"
	"wsb/shared/calendar"
	"wsb/shared/constant"
	"wsb/shared/failure"

	"github.com/rs/zerolog/log"
)

// Dispatcher claims due events and delivers them. A row completed by another
// worker is not redelivered. A row whose completion fails after a send stays
// PROCESSING until the sweeper re-pends it, so that event may be sent twice.
type Dispatcher interface {
	RunOnce(ctx context.Context) (int, error)
}

type dispatcherImpl struct {
	events       repository.Event
	reservations resRepo.Reservation
	catalog      catalogService.Catalog
	channels     map[model.Channel]channel.Channel
	cal          *calendar.Calendar
	cfg          *config.Config
	otel         otel.Otel
}

func NewDispatcher(
	events repository.Event,
	reservations resRepo.Reservation,
	catalog catalogService.Catalog,
	channels []channel.Channel,
	cal *calendar.Calendar,
	cfg *config.Config,
	otel otel.Otel,
) Dispatcher {
	byKind := make(map[model.Channel]channel.Channel, len(channels))
	for _, ch := range channels {
		byKind[ch.Kind()] = ch
	}

	return &dispatcherImpl{
		events:       events,
		reservations: reservations,
		catalog:      catalog,
		channels:     byKind,
		cal:          cal,
		cfg:          cfg,
		otel:         otel,
	}
}

// RunOnce claims one batch and completes every claimed event. It returns the
// number of events claimed.
func (d *dispatcherImpl) RunOnce(ctx context.Context) (claimed int, err error) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".RunOnce")
	defer scope.End()
	defer scope.TraceIfError(err)

	events, err := d.events.Claim(ctx, d.cal.Now(), d.cfg.Notification.Batch)
	if err != nil {
		log.Error().Err(err).Msg("failed to claim notification events")

		return 0, fmt.Errorf("failed to claim notification events: %w", err)
	}

	for _, event := range events {
		outcome := d.dispatch(ctx, event)

		logEvent := log.Info()
		if outcome.Status == model.StatusFailed {
			logEvent = log.Warn().Str("error", outcome.Error)
		}

		logEvent.
			Int64("event_id", event.ID).
			Int64("reservation_id", event.ReservationID).
			Str("event_type", string(event.EventType)).
			Str("status", string(outcome.Status)).
			Bool("attempted", outcome.Attempted).
			Msg("notification event dispatched")

		// a claimed row must not stay PROCESSING because the caller is stopping
		completed, err := d.events.Complete(context.WithoutCancel(ctx), event.ID, outcome)
		if err != nil {
			log.Error().
				Err(err).
				Int64("event_id", event.ID).
				Str("status", string(outcome.Status)).
				Bool("attempted", outcome.Attempted).
				Msg("failed to complete notification event, sweeper will re-pend it")

			continue
		}

		if !completed {
			log.Warn().Int64("event_id", event.ID).Msg("notification event was reclaimed before completion")
		}
	}

	return len(events), nil
}

func (d *dispatcherImpl) dispatch(ctx context.Context, event model.Event) model.Outcome {
	ch, ok := d.channels[event.Channel]
	if !ok {
		return model.Failed(fmt.Sprintf("no outbound channel for %s", event.Channel), false)
	}

	res, err := d.reservations.Find(ctx, event.ReservationID)
	if err != nil {
		if errors.Is(err, failure.ErrNotFound) {
			return model.Done()
		}

		return model.Failed(d.truncate(err.Error()), false)
	}

	if !res.IsActive() {
		return model.Done()
	}

	principal, err := d.catalog.Principal(ctx, res.OwnerID)
	if err != nil {
		return model.Failed(d.truncate(err.Error()), false)
	}

	if !ch.Enabled(principal) {
		return model.Done()
	}

	if ch.Address(principal) == "" {
		return model.Failed(fmt.Sprintf("owner has no %s address", event.Channel), false)
	}

	notice := channel.Notice{
		EventID:      event.ID,
		EventType:    event.EventType,
		Reservation:  res,
		ResourceName: d.resourceName(ctx, res.ResourceID),
		Recipient:    principal,
	}

	if event.EventType == model.EventEnd {
		notice.ExtendBy = d.extendOffer(ctx, res)
	}

	sendCtx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.Notification.SendTimeoutSeconds)*time.Second)
	defer cancel()

	if err := ch.Send(sendCtx, notice); err != nil {
		return model.Failed(d.truncate(err.Error()), true)
	}

	return model.Sent()
}

func (d *dispatcherImpl) resourceName(ctx context.Context, resourceID int64) string {
	resource, err := d.catalog.RequireResource(ctx, resourceID)
	if err != nil {
		return fmt.Sprintf("resource #%d", resourceID)
	}

	return resource.Name
}

// extendOffer returns one step if the reservation could be extended by it
// right now, zero otherwise.
func (d *dispatcherImpl) extendOffer(ctx context.Context, res resModel.Reservation) time.Duration {
	step := d.cal.Step()
	newEnd := res.End.Add(step)

	if newEnd.After(d.cal.DayLimit(res.Start)) || newEnd.Sub(res.Start) > d.cal.MaxDuration() {
		return 0
	}

	free, err := d.reservations.IsFree(ctx, res.ResourceID, res.End, newEnd, res.ID)
	if err != nil {
		log.Error().Err(err).Int64("reservation_id", res.ID).Msg("failed to check extension, no offer made")

		return 0
	}

	if !free {
		return 0
	}

	return step
}

func (d *dispatcherImpl) truncate(reason string) string {
	limit := d.cfg.Notification.ErrorMaxLength
	if limit <= 0 || len(reason) <= limit {
		return reason
	}

	cut := reason[:limit]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}

	return cut
}
