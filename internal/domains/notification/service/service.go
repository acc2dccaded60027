package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"wsb/config"
	"wsb/infras/otel"
	"wsb/internal/domains/notification/model"
	"wsb/internal/domains/notification/repository"
	resModel "wsb/internal/domains/reservation/model"
	resRepo "wsb/internal/domains/reservation/repository"
	"wsb/shared/calendar"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"

	"github.com/rs/zerolog/log"
)

// Scheduler owns the notification schedule of reservations. It is the write
// side used by the reservation service and the operator tool.
type Scheduler interface {
	Enroll(ctx context.Context, res resModel.Reservation) error
	Reschedule(ctx context.Context, res resModel.Reservation) error
	Withdraw(ctx context.Context, reservationID int64) error

	Rebuild(ctx context.Context) (int, error)
	RequeueFailed(ctx context.Context) (int, error)
	Sweep(ctx context.Context) (int, error)
	Stats(ctx context.Context) (map[model.Status]int, error)
}

type serviceImpl struct {
	repo         repository.Event
	reservations resRepo.Reservation
	cal          *calendar.Calendar
	cfg          *config.Config
	otel         otel.Otel
	channels     []model.Channel
}

func New(repo repository.Event, reservations resRepo.Reservation, cal *calendar.Calendar, cfg *config.Config, otel otel.Otel) Scheduler {
	return &serviceImpl{
		repo:         repo,
		reservations: reservations,
		cal:          cal,
		cfg:          cfg,
		otel:         otel,
		channels:     []model.Channel{model.ChannelEmail},
	}
}

func (s *serviceImpl) startLead() time.Duration {
	return time.Duration(s.cfg.Notification.StartLeadMinutes) * time.Minute
}

func (s *serviceImpl) endLead() time.Duration {
	return time.Duration(s.cfg.Notification.EndLeadMinutes) * time.Minute
}

func (s *serviceImpl) events(res resModel.Reservation) []model.Event {
	events := make([]model.Event, 0, 2*len(s.channels))

	for _, channel := range s.channels {
		events = append(events,
			model.Event{
				ReservationID: res.ID,
				EventType:     model.EventStart,
				Channel:       channel,
				FireAt:        res.Start.Add(-s.startLead()),
			},
			model.Event{
				ReservationID: res.ID,
				EventType:     model.EventEnd,
				Channel:       channel,
				FireAt:        res.End.Add(-s.endLead()),
			},
		)
	}

	return events
}

func (s *serviceImpl) Enroll(ctx context.Context, res resModel.Reservation) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Enroll")
	defer scope.End()
	defer scope.TraceIfError(err)

	inserted, err := s.repo.Enroll(ctx, s.events(res))
	if err != nil {
		log.Error().Err(err).Int64("reservation_id", res.ID).Msg("failed to enroll notification events")

		return fmt.Errorf("failed to enroll notification events: %w", err)
	}

	log.Debug().Int64("reservation_id", res.ID).Int("inserted", inserted).Msg("notification events enrolled")

	return nil
}

// Reschedule moves the END event to the reservation's current end. Events
// that already fired are left alone.
func (s *serviceImpl) Reschedule(ctx context.Context, res resModel.Reservation) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	moved, err := s.repo.Reschedule(ctx, res.ID, model.EventEnd, res.End.Add(-s.endLead()))
	if err != nil {
		log.Error().Err(err).Int64("reservation_id", res.ID).Msg("failed to reschedule end notification")

		return fmt.Errorf("failed to reschedule end notification: %w", err)
	}

	if !moved {
		log.Info().Int64("reservation_id", res.ID).Msg("end notification already fired, not rescheduled")
	}

	return nil
}

func (s *serviceImpl) Withdraw(ctx context.Context, reservationID int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Withdraw")
	defer scope.End()
	defer scope.TraceIfError(err)

	withdrawn, err := s.repo.Withdraw(ctx, reservationID)
	if err != nil {
		log.Error().Err(err).Int64("reservation_id", reservationID).Msg("failed to withdraw notification events")

		return fmt.Errorf("failed to withdraw notification events: %w", err)
	}

	log.Debug().Int64("reservation_id", reservationID).Int("withdrawn", withdrawn).Msg("notification events withdrawn")

	return nil
}

// Rebuild enrolls events for every active reservation that has not ended.
// Existing rows are kept as they are.
func (s *serviceImpl) Rebuild(ctx context.Context) (enrolled int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Rebuild")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservations, err := s.reservations.GetAll(ctx,
		gDto.QueryParams{SortBy: resModel.FieldStartAt, SortDir: gDto.SortDirAsc},
		gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: resModel.FieldState, Value: resModel.StateActive, Operator: gDto.FilterOperatorEq, Table: resModel.TableName},
				gDto.Filter{Field: resModel.FieldEndAt, Value: s.cal.Now(), Operator: gDto.FilterOperatorGreater, Table: resModel.TableName},
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active reservations")

		return 0, fmt.Errorf("failed to list active reservations: %w", err)
	}

	for _, res := range reservations {
		inserted, err := s.repo.Enroll(ctx, s.events(res))
		if err != nil {
			log.Error().Err(err).Int64("reservation_id", res.ID).Msg("failed to enroll notification events")

			return enrolled, fmt.Errorf("failed to enroll notification events: %w", err)
		}

		enrolled += inserted
	}

	log.Info().Int("reservations", len(reservations)).Int("enrolled", enrolled).Msg("notification schedule rebuilt")

	return enrolled, nil
}

func (s *serviceImpl) RequeueFailed(ctx context.Context) (int, error) {
	requeued, err := s.repo.RequeueFailed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to requeue failed notification events")

		return 0, fmt.Errorf("failed to requeue failed notification events: %w", err)
	}

	log.Info().Int("requeued", requeued).Msg("failed notification events requeued")

	return requeued, nil
}

// Sweep reclaims PROCESSING rows orphaned by a crashed worker.
func (s *serviceImpl) Sweep(ctx context.Context) (int, error) {
	timeout := time.Duration(s.cfg.Notification.ProcessingTimeoutSeconds) * time.Second

	swept, err := s.repo.Sweep(ctx, s.cal.Now().Add(-timeout))
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep orphaned notification events")

		return 0, fmt.Errorf("failed to sweep orphaned notification events: %w", err)
	}

	if swept > 0 {
		log.Warn().Int("swept", swept).Msg("orphaned notification events returned to pending")
	}

	return swept, nil
}

func (s *serviceImpl) Stats(ctx context.Context) (map[model.Status]int, error) {
	stats := make(map[model.Status]int, len(model.Statuses))

	for _, status := range model.Statuses {
		count, err := s.repo.Count(ctx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			},
		})
		if err != nil {
			log.Error().Err(err).Str("status", string(status)).Msg("failed to count notification events")

			return nil, fmt.Errorf("failed to count notification events: %w", err)
		}

		stats[status] = count
	}

	return stats, nil
}
