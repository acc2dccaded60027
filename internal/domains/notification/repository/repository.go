package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Event=MockEventRepository

import (
	"context"
	"fmt"
	"time"

	"wsb/infras/otel"
	"wsb/infras/postgres"
	"wsb/internal/domains/notification/model"
	"wsb/shared/calendar"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"
	"wsb/shared/logger"
	gRepo "wsb/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	eventColumns = "id, reservation_id, event_type, channel, fire_at, status, last_error, attempts, created_at, updated_at"

	queryEnroll = `INSERT INTO notification_events
		(reservation_id, event_type, channel, fire_at, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'PENDING', 0, $5, $5)
		ON CONFLICT (reservation_id, event_type, channel) DO NOTHING`

	queryReschedule = `UPDATE notification_events
		SET fire_at = $3, updated_at = $4
		WHERE reservation_id = $1 AND event_type = $2 AND status = 'PENDING'`

	queryWithdraw = `UPDATE notification_events
		SET status = 'DONE', updated_at = $2
		WHERE reservation_id = $1 AND status = 'PENDING'`

	// Rows claimed by a sibling worker are skipped, never waited on.
	queryClaimCandidates = `SELECT ` + eventColumns + `
		FROM notification_events
		WHERE status = 'PENDING' AND fire_at <= $1
		ORDER BY fire_at ASC, id ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	queryMarkProcessing = `UPDATE notification_events
		SET status = 'PROCESSING', updated_at = $2
		WHERE id = ANY($1)`

	queryComplete = `UPDATE notification_events
		SET status = $2,
		    last_error = NULLIF($3, ''),
		    attempts = attempts + $4,
		    updated_at = $5
		WHERE id = $1 AND status = 'PROCESSING'`

	querySweep = `UPDATE notification_events
		SET status = 'PENDING', updated_at = $2
		WHERE status = 'PROCESSING' AND updated_at < $1`

	queryRequeueFailed = `UPDATE notification_events
		SET status = 'PENDING', updated_at = $1
		WHERE status = 'FAILED'`
)

// Event persists the notification schedule. Status changes are guarded by the
// expected current status so a late writer never resurrects a finished row.
type Event interface {
	Enroll(ctx context.Context, events []model.Event) (int, error)
	Reschedule(ctx context.Context, reservationID int64, eventType model.EventType, fireAt time.Time) (bool, error)
	Withdraw(ctx context.Context, reservationID int64) (int, error)

	Claim(ctx context.Context, now time.Time, batch int) ([]model.Event, error)
	Complete(ctx context.Context, id int64, outcome model.Outcome) (bool, error)
	Sweep(ctx context.Context, olderThan time.Time) (int, error)
	RequeueFailed(ctx context.Context) (int, error)

	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Event, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Event]
	db   *postgres.Connection
	cal  *calendar.Calendar
	otel otel.Otel
}

func New(db *postgres.Connection, cal *calendar.Calendar, otel otel.Otel) Event {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Event](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		cal:        cal,
		otel:       otel,
	}
}

func (r *repositoryImpl) Enroll(ctx context.Context, events []model.Event) (inserted int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.Enroll")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := r.cal.Now()

	err = gRepo.WithTx(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		for _, ev := range events {
			result, err := tx.ExecContext(ctx, queryEnroll, ev.ReservationID, ev.EventType, ev.Channel, ev.FireAt, now)
			if err != nil {
				logger.ErrorWithStack(err)

				return fmt.Errorf("failed to enroll %s event: %w", ev.EventType, err)
			}

			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}

			inserted += int(affected)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (r *repositoryImpl) Reschedule(ctx context.Context, reservationID int64, eventType model.EventType, fireAt time.Time) (bool, error) {
	affected, err := r.exec(ctx, "Reschedule", queryReschedule, reservationID, eventType, fireAt, r.cal.Now())
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *repositoryImpl) Withdraw(ctx context.Context, reservationID int64) (int, error) {
	return r.exec(ctx, "Withdraw", queryWithdraw, reservationID, r.cal.Now())
}

// Claim moves up to batch due PENDING rows to PROCESSING and returns them.
func (r *repositoryImpl) Claim(ctx context.Context, now time.Time, batch int) (claimed []model.Event, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.Claim")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = gRepo.WithTx(ctx, r.db.Write, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &claimed, queryClaimCandidates, now, batch); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to select due events: %w", err)
		}

		if len(claimed) == 0 {
			return nil
		}

		ids := make([]int64, len(claimed))
		for i := range claimed {
			ids[i] = claimed[i].ID
			claimed[i].Status = model.StatusProcessing
		}

		if _, err := tx.ExecContext(ctx, queryMarkProcessing, pq.Array(ids), r.cal.Now()); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to mark events as processing: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

// Complete records the outcome. It reports false when the row was no longer
// PROCESSING, e.g. reclaimed by the sweeper.
func (r *repositoryImpl) Complete(ctx context.Context, id int64, outcome model.Outcome) (bool, error) {
	attempts := 0
	if outcome.Attempted {
		attempts = 1
	}

	affected, err := r.exec(ctx, "Complete", queryComplete, id, outcome.Status, outcome.Error, attempts, r.cal.Now())
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// Sweep returns PROCESSING rows untouched since olderThan to PENDING.
func (r *repositoryImpl) Sweep(ctx context.Context, olderThan time.Time) (int, error) {
	return r.exec(ctx, "Sweep", querySweep, olderThan, r.cal.Now())
}

func (r *repositoryImpl) RequeueFailed(ctx context.Context) (int, error) {
	return r.exec(ctx, "RequeueFailed", queryRequeueFailed, r.cal.Now())
}

func (r *repositoryImpl) exec(ctx context.Context, name, query string, args ...any) (affected int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification."+name)
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return int(rows), nil
}
