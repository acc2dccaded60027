package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"wsb/infras/otel/mocks"
	"wsb/infras/postgres"
	"wsb/internal/domains/notification/model"
	"wsb/internal/domains/notification/repository"
	"wsb/shared/calendar"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventColumns = []string{
	"id", "reservation_id", "event_type", "channel", "fire_at", "status", "last_error", "attempts", "created_at", "updated_at",
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 10, hour, minute, 0, 0, time.UTC)
}

func newRepository(t *testing.T) (repository.Event, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	cal, err := calendar.NewWithOptions(calendar.Options{
		Location: time.UTC,
		Now:      calendar.NewManualClock(at(9, 0)).Now,
	})
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, cal, mocks.NewOtel()), mock
}

func TestEventRepository_Enroll_IsIdempotent(t *testing.T) {
	repo, mock := newRepository(t)

	events := []model.Event{
		{ReservationID: 11, EventType: model.EventStart, Channel: model.ChannelEmail, FireAt: at(9, 0)},
		{ReservationID: 11, EventType: model.EventEnd, Channel: model.ChannelEmail, FireAt: at(10, 30)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (reservation_id, event_type, channel) DO NOTHING")).
		WithArgs(int64(11), model.EventStart, model.ChannelEmail, at(9, 0), at(9, 0)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (reservation_id, event_type, channel) DO NOTHING")).
		WithArgs(int64(11), model.EventEnd, model.ChannelEmail, at(10, 30), at(9, 0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	inserted, err := repo.Enroll(context.Background(), events)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestEventRepository_Claim(t *testing.T) {
	t.Run("claims due rows", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
			WithArgs(at(9, 0), 10).
			WillReturnRows(sqlmock.NewRows(eventColumns).
				AddRow(int64(1), int64(11), "START", "EMAIL", at(9, 0), "PENDING", nil, 0, at(8, 0), at(8, 0)).
				AddRow(int64(2), int64(12), "START", "EMAIL", at(9, 0), "PENDING", nil, 0, at(8, 0), at(8, 0)))
		mock.ExpectExec(regexp.QuoteMeta("SET status = 'PROCESSING'")).
			WithArgs(sqlmock.AnyArg(), at(9, 0)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		claimed, err := repo.Claim(context.Background(), at(9, 0), 10)
		require.NoError(t, err)
		require.Len(t, claimed, 2)
		assert.Equal(t, model.StatusProcessing, claimed[0].Status)
		assert.Equal(t, int64(11), claimed[0].ReservationID)
	})

	t.Run("nothing due", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
			WithArgs(at(9, 0), 10).
			WillReturnRows(sqlmock.NewRows(eventColumns))
		mock.ExpectCommit()

		claimed, err := repo.Claim(context.Background(), at(9, 0), 10)
		require.NoError(t, err)
		assert.Empty(t, claimed)
	})
}

func TestEventRepository_Complete(t *testing.T) {
	tests := []struct {
		name     string
		outcome  model.Outcome
		attempts int
		affected int64
		want     bool
	}{
		{name: "sent", outcome: model.Sent(), attempts: 1, affected: 1, want: true},
		{name: "skipped", outcome: model.Done(), attempts: 0, affected: 1, want: true},
		{name: "failed", outcome: model.Failed("gateway down", true), attempts: 1, affected: 1, want: true},
		{name: "already swept", outcome: model.Sent(), attempts: 1, affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)

			mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'PROCESSING'")).
				WithArgs(int64(1), tt.outcome.Status, tt.outcome.Error, tt.attempts, at(9, 0)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.Complete(context.Background(), 1, tt.outcome)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEventRepository_RescheduleOnlyPending(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("AND status = 'PENDING'")).
		WithArgs(int64(11), model.EventEnd, at(11, 30), at(9, 0)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Reschedule(context.Background(), 11, model.EventEnd, at(11, 30))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventRepository_Sweep(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("WHERE status = 'PROCESSING' AND updated_at < $1")).
		WithArgs(at(8, 55), at(9, 0)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	swept, err := repo.Sweep(context.Background(), at(8, 55))
	require.NoError(t, err)
	assert.Equal(t, 3, swept)
}
