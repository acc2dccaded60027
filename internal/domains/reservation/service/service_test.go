package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wsb/infras/otel/mocks"
	catalogMocks "wsb/internal/domains/catalog/mocks"
	catalogModel "wsb/internal/domains/catalog/model"
	notifMocks "wsb/internal/domains/notification/mocks"
	resMocks "wsb/internal/domains/reservation/mocks"
	"wsb/internal/domains/reservation/model"
	"wsb/internal/domains/reservation/model/dto"
	"wsb/internal/domains/reservation/service"
	"wsb/shared/cache"
	cacheMocks "wsb/shared/cache/mocks"
	"wsb/shared/calendar"
	gDto "wsb/shared/dto"
	"wsb/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 10, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	svc       service.Reservation
	repo      *resMocks.MockReservationRepository
	catalog   *catalogMocks.MockCatalog
	scheduler *notifMocks.MockScheduler
	cache     *cacheMocks.MockViewCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cal, err := calendar.NewWithOptions(calendar.Options{
		Location: time.UTC,
		Now:      calendar.NewManualClock(at(8, 0)).Now,
	})
	require.NoError(t, err)

	f := fixture{
		repo:      resMocks.NewMockReservationRepository(ctrl),
		catalog:   catalogMocks.NewMockCatalog(ctrl),
		scheduler: notifMocks.NewMockScheduler(ctrl),
		cache:     cacheMocks.NewMockViewCache(ctrl),
	}
	f.svc = service.New(f.repo, f.catalog, f.scheduler, cal, f.cache, mocks.NewOtel())

	return f
}

func (f fixture) expectBookable() {
	f.catalog.EXPECT().RequireBookable(gomock.Any(), int64(1)).Return(catalogModel.Resource{ID: 1, IsActive: true}, nil)
	f.catalog.EXPECT().RequireActivePrincipal(gomock.Any(), "A").Return(catalogModel.Principal{ID: "A"}, nil)
}

func (f fixture) expectInvalidation() {
	f.cache.EXPECT().Forget(gomock.Any(), cache.SlotsKey(1, "2025-01-10"), cache.HeatmapKey("2025-01-10"))
}

func r1() model.Reservation {
	return model.Reservation{ID: 11, ResourceID: 1, OwnerID: "A", Start: at(9, 0), End: at(10, 30), State: model.StateActive, CreatedAt: at(8, 0)}
}

func TestReservationService_Create(t *testing.T) {
	t.Run("happy create enrolls notifications", func(t *testing.T) {
		f := newFixture(t)
		f.expectBookable()

		f.repo.EXPECT().Create(gomock.Any(), model.Reservation{ResourceID: 1, OwnerID: "A", Start: at(9, 0), End: at(10, 30)}).Return(r1(), nil)
		f.expectInvalidation()
		f.scheduler.EXPECT().Enroll(gomock.Any(), r1()).Return(nil)

		res, err := f.svc.Create(context.Background(), "A", dto.CreateReservationRequest{
			ResourceID: 1, Date: "2025-01-10", Start: "09:00", DurationMinutes: 90,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), res.ID)
		assert.Equal(t, "09:00", res.Start)
		assert.Equal(t, "10:30", res.End)
		assert.Equal(t, 90, res.DurationMinutes)
		assert.Equal(t, "ACTIVE", res.State)
	})

	t.Run("enrollment failure does not undo the reservation", func(t *testing.T) {
		f := newFixture(t)
		f.expectBookable()

		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(r1(), nil)
		f.expectInvalidation()
		f.scheduler.EXPECT().Enroll(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := f.svc.Create(context.Background(), "A", dto.CreateReservationRequest{
			ResourceID: 1, Date: "2025-01-10", Start: "09:00", DurationMinutes: 90,
		})
		assert.NoError(t, err)
	})

	t.Run("conflict is surfaced verbatim", func(t *testing.T) {
		f := newFixture(t)
		f.expectBookable()

		conflict := failure.WithDetails(failure.ReasonConflict, "taken", []model.Interval{
			{ReservationID: 11, OwnerID: "A", Start: at(9, 0), End: at(10, 30)},
		})
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Reservation{}, conflict)

		_, err := f.svc.Create(context.Background(), "A", dto.CreateReservationRequest{
			ResourceID: 1, Date: "2025-01-10", Start: "10:00", DurationMinutes: 60,
		})
		assert.Equal(t, conflict, err)
	})

	t.Run("infrastructure errors are wrapped", func(t *testing.T) {
		f := newFixture(t)
		f.expectBookable()

		f.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Reservation{}, errors.New("connection refused"))

		_, err := f.svc.Create(context.Background(), "A", dto.CreateReservationRequest{
			ResourceID: 1, Date: "2025-01-10", Start: "10:00", DurationMinutes: 60,
		})
		require.Error(t, err)
		assert.Equal(t, failure.ReasonUnavailable, failure.GetReason(err))
	})
}

func TestReservationService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateReservationRequest
		wantErr error
	}{
		{name: "past start", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "07:30", DurationMinutes: 60}, wantErr: failure.ErrPastTime},
		{name: "starting now is fine but overlong", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "08:00", DurationMinutes: 510}, wantErr: failure.ErrDurationOutOfRange},
		{name: "bad date", req: dto.CreateReservationRequest{Date: "10/01/2025", Start: "09:00", DurationMinutes: 60}, wantErr: failure.ErrBadTimeFormat},
		{name: "bad time", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "9am", DurationMinutes: 60}, wantErr: failure.ErrBadTimeFormat},
		{name: "unaligned start", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "09:10", DurationMinutes: 60}, wantErr: failure.ErrUnaligned},
		{name: "unaligned duration", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "09:00", DurationMinutes: 45}, wantErr: failure.ErrUnaligned},
		{name: "zero duration", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "09:00"}, wantErr: failure.ErrDurationOutOfRange},
		{name: "past closing", req: dto.CreateReservationRequest{Date: "2025-01-10", Start: "21:30", DurationMinutes: 90}, wantErr: failure.ErrOutOfHours},
		{name: "before opening tomorrow", req: dto.CreateReservationRequest{Date: "2025-01-11", Start: "06:00", DurationMinutes: 60}, wantErr: failure.ErrOutOfHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectBookable()

			tt.req.ResourceID = 1

			_, err := f.svc.Create(context.Background(), "A", tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReservationService_Create_CatalogChecks(t *testing.T) {
	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().RequireBookable(gomock.Any(), int64(5)).
			Return(catalogModel.Resource{}, failure.New(failure.ReasonUnknownResource, "resource 5 does not exist"))

		_, err := f.svc.Create(context.Background(), "A", dto.CreateReservationRequest{
			ResourceID: 5, Date: "2025-01-10", Start: "09:00", DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, failure.ErrUnknownResource)
	})

	t.Run("blocked principal", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().RequireBookable(gomock.Any(), int64(1)).Return(catalogModel.Resource{ID: 1, IsActive: true}, nil)
		f.catalog.EXPECT().RequireActivePrincipal(gomock.Any(), "A").
			Return(catalogModel.Principal{}, failure.New(failure.ReasonInactivePrincipal, "principal is unknown or blocked"))

		_, err := f.svc.Create(context.Background(), "A", dto.CreateReservationRequest{
			ResourceID: 1, Date: "2025-01-10", Start: "09:00", DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, failure.ErrInactivePrincipal)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	t.Run("withdraws pending notifications", func(t *testing.T) {
		f := newFixture(t)

		cancelled := r1()
		cancelled.State = model.StateCancelled

		f.repo.EXPECT().Cancel(gomock.Any(), int64(11), "A", false).Return(cancelled, nil)
		f.expectInvalidation()
		f.scheduler.EXPECT().Withdraw(gomock.Any(), int64(11)).Return(nil)

		res, err := f.svc.Cancel(context.Background(), 11, "A", false)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", res.State)
	})

	t.Run("denied leaves everything untouched", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Cancel(gomock.Any(), int64(11), "B", false).
			Return(model.Reservation{}, failure.New(failure.ReasonDenied, "not yours"))

		_, err := f.svc.Cancel(context.Background(), 11, "B", false)
		assert.ErrorIs(t, err, failure.ErrDenied)
	})
}

func TestReservationService_Finish(t *testing.T) {
	f := newFixture(t)

	finishedAt := at(9, 45)
	finished := r1()
	finished.State = model.StateFinished
	finished.FinishedAt = &finishedAt

	f.repo.EXPECT().Finish(gomock.Any(), int64(11), "A", false).Return(finished, nil)
	f.expectInvalidation()
	f.scheduler.EXPECT().Withdraw(gomock.Any(), int64(11)).Return(nil)

	res, err := f.svc.Finish(context.Background(), 11, "A", false)
	require.NoError(t, err)
	require.NotNil(t, res.FinishedAt)
	assert.Equal(t, at(9, 45), *res.FinishedAt)
}

func TestReservationService_Extend(t *testing.T) {
	t.Run("reschedules the end notification", func(t *testing.T) {
		f := newFixture(t)

		extended := r1()
		extended.End = at(11, 30)

		f.repo.EXPECT().Extend(gomock.Any(), int64(11), "A", 60, false).Return(extended, nil)
		f.expectInvalidation()
		f.scheduler.EXPECT().Reschedule(gomock.Any(), extended).Return(nil)

		res, err := f.svc.Extend(context.Background(), 11, "A", 60, false)
		require.NoError(t, err)
		assert.Equal(t, "11:30", res.End)
	})

	t.Run("conflict", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Extend(gomock.Any(), int64(11), "A", 60, false).
			Return(model.Reservation{}, failure.New(failure.ReasonConflict, "taken"))

		_, err := f.svc.Extend(context.Background(), 11, "A", 60, false)
		assert.ErrorIs(t, err, failure.ErrConflict)
	})
}

func TestReservationService_Get(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		isAdmin bool
		wantErr error
	}{
		{name: "owner", actor: "A"},
		{name: "admin", actor: "root", isAdmin: true},
		{name: "stranger", actor: "B", wantErr: failure.ErrDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Find(gomock.Any(), int64(11)).Return(r1(), nil)

			_, err := f.svc.Get(context.Background(), 11, tt.actor, tt.isAdmin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_ListAll(t *testing.T) {
	t.Run("requires admin", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ListAll(context.Background(), "", gDto.QueryParams{}, false)
		assert.ErrorIs(t, err, failure.ErrDenied)
	})

	t.Run("pages through the day", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 2, SortBy: "start_at", SortDir: "ASC"}, gomock.Any()).
			Return([]model.Reservation{r1()}, nil)

		res, err := f.svc.ListAll(context.Background(), "2025-01-10", gDto.QueryParams{Page: 1, Limit: 2}, true)
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
		assert.Len(t, res.Reservations, 1)
	})
}

func TestReservationService_ListMine(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{r1()}, nil)

	res, err := f.svc.ListMine(context.Background(), "A", "")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "2025-01-10", res[0].Date)

	_, err = f.svc.ListMine(context.Background(), "A", "tomorrow")
	assert.ErrorIs(t, err, failure.ErrBadTimeFormat)
}
