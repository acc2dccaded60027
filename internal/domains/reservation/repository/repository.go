package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Reservation=MockReservationRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wsb/infras/otel"
	"wsb/infras/postgres"
	"wsb/internal/domains/reservation/model"
	"wsb/shared"
	"wsb/shared/calendar"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"
	"wsb/shared/failure"
	"wsb/shared/logger"
	gRepo "wsb/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	reservationColumns = "id, resource_id, owner_id, start_at, end_at, state, finished_at, created_at"

	// One lock per resource, held until the transaction ends.
	queryLockResource = `SELECT pg_advisory_xact_lock($1)`

	queryConflicts = `SELECT id, owner_id, start_at, COALESCE(finished_at, end_at) AS effective_end
		FROM reservations
		WHERE resource_id = $1
		  AND state <> 'CANCELLED'
		  AND id <> $4
		  AND start_at < $3
		  AND COALESCE(finished_at, end_at) > $2
		ORDER BY start_at`

	queryInsert = `INSERT INTO reservations (resource_id, owner_id, start_at, end_at, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reservationColumns

	queryResourceOf = `SELECT resource_id FROM reservations WHERE id = $1`

	querySelectForUpdate = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

	queryUpdateState = `UPDATE reservations SET state = $2, finished_at = $3 WHERE id = $1 RETURNING ` + reservationColumns

	queryUpdateEnd = `UPDATE reservations SET end_at = $2 WHERE id = $1 RETURNING ` + reservationColumns
)

// Reservation is the only writer of reservation rows. Every mutation runs in
// a single transaction; create and extend are serialized per resource.
type Reservation interface {
	Create(ctx context.Context, res model.Reservation) (model.Reservation, error)
	Cancel(ctx context.Context, id int64, actorID string, isAdmin bool) (model.Reservation, error)
	Finish(ctx context.Context, id int64, actorID string, isAdmin bool) (model.Reservation, error)
	Extend(ctx context.Context, id int64, actorID string, addedMinutes int, isAdmin bool) (model.Reservation, error)

	IsFree(ctx context.Context, resourceID int64, start, end time.Time, excludeID int64) (bool, error)
	Find(ctx context.Context, id int64) (model.Reservation, error)
	ListActiveOn(ctx context.Context, resourceID int64, date time.Time) ([]model.Reservation, error)
	ListOccupiedOn(ctx context.Context, date time.Time) ([]model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	cal  *calendar.Calendar
	otel otel.Otel
}

func New(db *postgres.Connection, cal *calendar.Calendar, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		cal:        cal,
		otel:       otel,
	}
}

func (r *repositoryImpl) Create(ctx context.Context, res model.Reservation) (created model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("resource_id", res.ResourceID)

	err = gRepo.WithTx(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		if err := lockResource(ctx, tx, res.ResourceID); err != nil {
			return err
		}

		if err := checkConflicts(ctx, tx, res.ResourceID, res.Start, res.End, 0); err != nil {
			return err
		}

		err := tx.GetContext(ctx, &created, queryInsert,
			res.ResourceID, res.OwnerID, res.Start, res.End, model.StateActive, r.cal.Now())
		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}

	log.Info().
		Int64("reservation_id", created.ID).
		Int64("resource_id", created.ResourceID).
		Str("owner_id", created.OwnerID).
		Msg("reservation created")

	return created, nil
}

func (r *repositoryImpl) Cancel(ctx context.Context, id int64, actorID string, isAdmin bool) (res model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = gRepo.WithTx(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		current, err := loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := authorize(current, actorID, isAdmin); err != nil {
			return err
		}

		return updateState(ctx, tx, &res, id, model.StateCancelled, nil)
	})

	return res, err
}

func (r *repositoryImpl) Finish(ctx context.Context, id int64, actorID string, isAdmin bool) (res model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Finish")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = gRepo.WithTx(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		current, err := loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := authorize(current, actorID, isAdmin); err != nil {
			return err
		}

		now := r.cal.Now()
		if now.Before(current.Start) {
			return failure.New(failure.ReasonNotStarted, "reservation has not started yet") //nolint:wrapcheck
		}

		finishedAt := clamp(now, current.Start, current.End)

		return updateState(ctx, tx, &res, id, model.StateFinished, &finishedAt)
	})

	return res, err
}

func (r *repositoryImpl) Extend(ctx context.Context, id int64, actorID string, addedMinutes int, isAdmin bool) (res model.Reservation, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Extend")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = gRepo.WithTx(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		var resourceID int64

		err := tx.GetContext(ctx, &resourceID, queryResourceOf, id)
		if errors.Is(err, sql.ErrNoRows) {
			return failure.NotFound(fmt.Sprintf("reservation %d not found", id)) //nolint:wrapcheck
		}

		if err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to load reservation: %w", err)
		}

		if err := lockResource(ctx, tx, resourceID); err != nil {
			return err
		}

		current, err := loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := authorize(current, actorID, isAdmin); err != nil {
			return err
		}

		if !r.cal.Now().Before(current.End) {
			return failure.New(failure.ReasonExpired, "reservation has already ended") //nolint:wrapcheck
		}

		newEnd, err := r.cal.ValidateExtension(current.Start, current.End, addedMinutes)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if err := checkConflicts(ctx, tx, current.ResourceID, current.End, newEnd, current.ID); err != nil {
			return err
		}

		if err := tx.GetContext(ctx, &res, queryUpdateEnd, id, newEnd); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to extend reservation: %w", err)
		}

		return nil
	})

	return res, err
}

// IsFree reports whether [start, end) on the resource is unoccupied, ignoring excludeID.
func (r *repositoryImpl) IsFree(ctx context.Context, resourceID int64, start, end time.Time, excludeID int64) (bool, error) {
	var intervals []model.Interval

	if err := r.db.Read.SelectContext(ctx, &intervals, queryConflicts, resourceID, start, end, excludeID); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to query occupied intervals: %w", err)
	}

	return len(intervals) == 0, nil
}

func (r *repositoryImpl) Find(ctx context.Context, id int64) (model.Reservation, error) {
	res, err := r.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to find reservation: %w", err)
	}

	if res.ID == 0 {
		return res, failure.NotFound(fmt.Sprintf("reservation %d not found", id)) //nolint:wrapcheck
	}

	return res, nil
}

// ListActiveOn returns the rows occupying the resource on the given day, ordered by start.
func (r *repositoryImpl) ListActiveOn(ctx context.Context, resourceID int64, date time.Time) ([]model.Reservation, error) {
	filter := r.dayFilter(date)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldResourceID,
		Value:    resourceID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	res, err := r.GetAll(ctx, byStart(), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations on day: %w", err)
	}

	return res, nil
}

// ListOccupiedOn returns the occupying rows of every resource on the given day.
func (r *repositoryImpl) ListOccupiedOn(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	res, err := r.GetAll(ctx, byStart(), r.dayFilter(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations on day: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) dayFilter(date time.Time) gDto.FilterGroup {
	dayStart := r.cal.StartOfDay(date)

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldState,
				Value:    model.StateCancelled,
				Operator: gDto.FilterOperatorNotEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_start",
				Field:    model.FieldStartAt,
				Value:    dayStart,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_end",
				Field:    model.FieldStartAt,
				Value:    dayStart.AddDate(0, 0, 1),
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
		},
	}
}

func byStart() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldStartAt, SortDir: gDto.SortDirAsc}
}

func lockResource(ctx context.Context, tx *sqlx.Tx, resourceID int64) error {
	if _, err := tx.ExecContext(ctx, queryLockResource, resourceID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock resource %d: %w", resourceID, err)
	}

	return nil
}

func checkConflicts(ctx context.Context, tx *sqlx.Tx, resourceID int64, start, end time.Time, excludeID int64) error {
	var intervals []model.Interval

	if err := tx.SelectContext(ctx, &intervals, queryConflicts, resourceID, start, end, excludeID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to query conflicting reservations: %w", err)
	}

	if len(intervals) > 0 {
		return failure.WithDetails(failure.ReasonConflict, "requested interval overlaps existing reservations", intervals) //nolint:wrapcheck
	}

	return nil
}

func loadForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (model.Reservation, error) {
	var res model.Reservation

	err := tx.GetContext(ctx, &res, querySelectForUpdate, id)
	if errors.Is(err, sql.ErrNoRows) {
		return res, failure.NotFound(fmt.Sprintf("reservation %d not found", id)) //nolint:wrapcheck
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to load reservation: %w", err)
	}

	return res, nil
}

// authorize applies the owner-or-admin rule and rejects terminal rows.
func authorize(res model.Reservation, actorID string, isAdmin bool) error {
	if !res.CanBeManagedBy(actorID, isAdmin) {
		return failure.New(failure.ReasonDenied, "only the owner or an administrator can change this reservation") //nolint:wrapcheck
	}

	if !res.IsActive() {
		return failure.New(failure.ReasonAlreadyTerminal, fmt.Sprintf("reservation is already %s", res.State)) //nolint:wrapcheck
	}

	return nil
}

func updateState(ctx context.Context, tx *sqlx.Tx, dest *model.Reservation, id int64, state model.State, finishedAt *time.Time) error {
	if err := tx.GetContext(ctx, dest, queryUpdateState, id, state, finishedAt); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update reservation state: %w", err)
	}

	log.Info().Int64("reservation_id", id).Str("state", string(state)).Msg("reservation state changed")

	return nil
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}

	if t.After(hi) {
		return hi
	}

	return t
}
