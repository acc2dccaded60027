package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"wsb/infras/otel"
	catalogService "wsb/internal/domains/catalog/service"
	notifService "wsb/internal/domains/notification/service"
	"wsb/internal/domains/reservation/model"
	"wsb/internal/domains/reservation/model/dto"
	"wsb/internal/domains/reservation/repository"
	"wsb/shared/cache"
	"wsb/shared/calendar"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"
	"wsb/shared/failure"

	"github.com/rs/zerolog/log"
)

// Reservation is the API consumed by adapters. Expected outcomes are
// returned as *failure.Failure; anything else is an infrastructure error.
type Reservation interface {
	Create(ctx context.Context, ownerID string, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id int64, actorID string, isAdmin bool) (dto.ReservationResponse, error)
	Finish(ctx context.Context, id int64, actorID string, isAdmin bool) (dto.ReservationResponse, error)
	Extend(ctx context.Context, id int64, actorID string, addedMinutes int, isAdmin bool) (dto.ReservationResponse, error)
	Get(ctx context.Context, id int64, actorID string, isAdmin bool) (dto.ReservationResponse, error)
	ListMine(ctx context.Context, ownerID string, date string) ([]dto.ReservationResponse, error)
	ListAll(ctx context.Context, date string, params gDto.QueryParams, isAdmin bool) (dto.GetReservationsResponse, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	catalog   catalogService.Catalog
	scheduler notifService.Scheduler
	cal       *calendar.Calendar
	cache     cache.ViewCache
	otel      otel.Otel
}

func New(
	repo repository.Reservation,
	catalog catalogService.Catalog,
	scheduler notifService.Scheduler,
	cal *calendar.Calendar,
	viewCache cache.ViewCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		catalog:   catalog,
		scheduler: scheduler,
		cal:       cal,
		cache:     viewCache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, ownerID string, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.catalog.RequireBookable(ctx, req.ResourceID); err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.catalog.RequireActivePrincipal(ctx, ownerID); err != nil {
		return res, err //nolint:wrapcheck
	}

	start, end, err := s.interval(req)
	if err != nil {
		return res, err
	}

	created, err := s.repo.Create(ctx, model.Reservation{
		ResourceID: req.ResourceID,
		OwnerID:    ownerID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		if failure.IsExpected(err) {
			return res, err //nolint:wrapcheck
		}

		log.Error().Err(err).Int64("resource_id", req.ResourceID).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.invalidate(ctx, created)

	if err := s.scheduler.Enroll(ctx, created); err != nil {
		log.Error().Err(err).Int64("reservation_id", created.ID).Msg("reservation created without notification schedule")
	}

	res.FromModel(created, s.cal)

	return res, nil
}

// interval turns the request into [start, end) after every calendar rule.
func (s *serviceImpl) interval(req dto.CreateReservationRequest) (start, end time.Time, err error) {
	date, err := s.cal.ParseDate(req.Date)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	tod, err := s.cal.ParseTime(req.Start)
	if err != nil {
		return start, end, err //nolint:wrapcheck
	}

	if err = s.cal.ValidateDuration(req.DurationMinutes); err != nil {
		return start, end, err //nolint:wrapcheck
	}

	start = s.cal.Combine(date, tod)
	end = start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	if err = s.cal.ValidateInterval(start, end); err != nil {
		return start, end, err //nolint:wrapcheck
	}

	if err = s.cal.ValidateNotPast(start); err != nil {
		return start, end, err //nolint:wrapcheck
	}

	return start, end, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id int64, actorID string, isAdmin bool) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	cancelled, err := s.repo.Cancel(ctx, id, actorID, isAdmin)
	if err != nil {
		return res, s.storeError(err, id, "failed to cancel reservation")
	}

	s.invalidate(ctx, cancelled)
	s.withdraw(ctx, cancelled.ID)

	res.FromModel(cancelled, s.cal)

	return res, nil
}

func (s *serviceImpl) Finish(ctx context.Context, id int64, actorID string, isAdmin bool) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Finish")
	defer scope.End()
	defer scope.TraceIfError(err)

	finished, err := s.repo.Finish(ctx, id, actorID, isAdmin)
	if err != nil {
		return res, s.storeError(err, id, "failed to finish reservation")
	}

	s.invalidate(ctx, finished)
	s.withdraw(ctx, finished.ID)

	res.FromModel(finished, s.cal)

	return res, nil
}

func (s *serviceImpl) Extend(ctx context.Context, id int64, actorID string, addedMinutes int, isAdmin bool) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Extend")
	defer scope.End()
	defer scope.TraceIfError(err)

	extended, err := s.repo.Extend(ctx, id, actorID, addedMinutes, isAdmin)
	if err != nil {
		return res, s.storeError(err, id, "failed to extend reservation")
	}

	s.invalidate(ctx, extended)

	if err := s.scheduler.Reschedule(ctx, extended); err != nil {
		log.Error().Err(err).Int64("reservation_id", extended.ID).Msg("end notification keeps its previous time")
	}

	res.FromModel(extended, s.cal)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64, actorID string, isAdmin bool) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	found, err := s.repo.Find(ctx, id)
	if err != nil {
		return res, s.storeError(err, id, "failed to get reservation")
	}

	if !found.CanBeManagedBy(actorID, isAdmin) {
		return res, failure.New(failure.ReasonDenied, "only the owner or an administrator can view this reservation") //nolint:wrapcheck
	}

	res.FromModel(found, s.cal)

	return res, nil
}

func (s *serviceImpl) ListMine(ctx context.Context, ownerID string, date string) (res []dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := s.dateFilter(date)
	if err != nil {
		return nil, err
	}

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldOwnerID,
		Value:    ownerID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldStartAt, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list reservations")

		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return dto.FromModels(models, s.cal), nil
}

func (s *serviceImpl) ListAll(ctx context.Context, date string, params gDto.QueryParams, isAdmin bool) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !isAdmin {
		return res, failure.New(failure.ReasonDenied, "only administrators can list all reservations") //nolint:wrapcheck
	}

	filter, err := s.dateFilter(date)
	if err != nil {
		return res, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	if params.SortBy == "" {
		params.SortBy, params.SortDir = constant.DefaultValueSortBy, constant.DefaultValueSortDir
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list reservations")

		return res, fmt.Errorf("failed to list reservations: %w", err)
	}

	res.FromModels(models, s.cal, total, params.Limit)

	return res, nil
}

// dateFilter restricts to reservations starting on date; an empty date means no restriction.
func (s *serviceImpl) dateFilter(date string) (gDto.FilterGroup, error) {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if date == "" {
		return filter, nil
	}

	day, err := s.cal.ParseDate(date)
	if err != nil {
		return filter, err //nolint:wrapcheck
	}

	filter.Filters = append(filter.Filters,
		gDto.Filter{
			ArgName:  "day_start",
			Field:    model.FieldStartAt,
			Value:    day,
			Operator: gDto.FilterOperatorGreaterEq,
			Table:    model.TableName,
		},
		gDto.Filter{
			ArgName:  "day_end",
			Field:    model.FieldStartAt,
			Value:    day.AddDate(0, 0, 1),
			Operator: gDto.FilterOperatorLess,
			Table:    model.TableName,
		},
	)

	return filter, nil
}

// invalidate drops the cached views of the reservation's day once the write committed.
func (s *serviceImpl) invalidate(ctx context.Context, res model.Reservation) {
	date := s.cal.FormatDate(res.Start)

	s.cache.Forget(ctx, cache.SlotsKey(res.ResourceID, date), cache.HeatmapKey(date))
}

func (s *serviceImpl) withdraw(ctx context.Context, reservationID int64) {
	if err := s.scheduler.Withdraw(ctx, reservationID); err != nil {
		log.Error().Err(err).Int64("reservation_id", reservationID).Msg("pending notifications left for dispatch-time check")
	}
}

func (s *serviceImpl) storeError(err error, id int64, msg string) error {
	if failure.IsExpected(err) {
		return err
	}

	log.Error().Err(err).Int64("reservation_id", id).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}
