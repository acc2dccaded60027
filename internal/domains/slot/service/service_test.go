package service_test

import (
	"context"
	"errors"
	"testing"

	"wsb/infras/otel/mocks"
	catalogMocks "wsb/internal/domains/catalog/mocks"
	catalogModel "wsb/internal/domains/catalog/model"
	resMocks "wsb/internal/domains/reservation/mocks"
	resModel "wsb/internal/domains/reservation/model"
	"wsb/internal/domains/slot/model"
	"wsb/internal/domains/slot/model/dto"
	"wsb/internal/domains/slot/service"
	"wsb/shared/cache"
	cacheMocks "wsb/shared/cache/mocks"
	"wsb/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc          service.Slot
	reservations *resMocks.MockReservationRepository
	catalog      *catalogMocks.MockCatalog
	cache        *cacheMocks.MockViewCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		reservations: resMocks.NewMockReservationRepository(ctrl),
		catalog:      catalogMocks.NewMockCatalog(ctrl),
		cache:        cacheMocks.NewMockViewCache(ctrl),
	}
	f.svc = service.New(f.reservations, f.catalog, newCalendar(t, at(8, 0)), f.cache, mocks.NewOtel())

	return f
}

func TestSlotService_ListFreeSlots(t *testing.T) {
	t.Run("today bypasses the cache", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().RequireResource(gomock.Any(), int64(1)).Return(catalogModel.Resource{ID: 1, IsActive: true}, nil)
		f.reservations.EXPECT().
			ListActiveOn(gomock.Any(), int64(1), day).
			Return([]resModel.Reservation{active(1, at(9, 0), at(10, 30))}, nil)

		res, err := f.svc.ListFreeSlots(context.Background(), 1, "2025-01-10")
		require.NoError(t, err)

		assert.Equal(t, int64(1), res.ResourceID)
		assert.Equal(t, "2025-01-10", res.Date)
		require.NotEmpty(t, res.Slots)
		assert.Equal(t, dto.SlotResponse{Start: "08:00", StartAt: at(8, 0), MaxDurationMinutes: 60}, res.Slots[0])

		for _, s := range res.Slots {
			assert.NotContains(t, []string{"09:00", "09:30", "10:00"}, s.Start)
		}
	})

	t.Run("other days are filled on miss", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().RequireResource(gomock.Any(), int64(1)).Return(catalogModel.Resource{ID: 1, IsActive: true}, nil)
		f.cache.EXPECT().Lookup(gomock.Any(), cache.SlotsKey(1, "2025-01-11"), gomock.Any()).Return(false)
		f.reservations.EXPECT().ListActiveOn(gomock.Any(), int64(1), day.AddDate(0, 0, 1)).Return(nil, nil)
		f.cache.EXPECT().Store(
			gomock.Any(),
			cache.FamilySlots,
			cache.SlotsKey(1, "2025-01-11"),
			gomock.Any(),
			cache.ResourceTag(1),
			cache.DateTag("2025-01-11"),
		)

		res, err := f.svc.ListFreeSlots(context.Background(), 1, "2025-01-11")
		require.NoError(t, err)
		assert.Len(t, res.Slots, 30)
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)

		cached := dto.SlotsResponse{ResourceID: 1, Date: "2025-01-11", Slots: []dto.SlotResponse{{Start: "07:00", MaxDurationMinutes: 480}}}

		f.catalog.EXPECT().RequireResource(gomock.Any(), int64(1)).Return(catalogModel.Resource{ID: 1, IsActive: true}, nil)
		f.cache.EXPECT().
			Lookup(gomock.Any(), cache.SlotsKey(1, "2025-01-11"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) bool {
				*dest.(*dto.SlotsResponse) = cached

				return true
			})

		res, err := f.svc.ListFreeSlots(context.Background(), 1, "2025-01-11")
		require.NoError(t, err)
		assert.Equal(t, cached, res)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().
			RequireResource(gomock.Any(), int64(9)).
			Return(catalogModel.Resource{}, failure.New(failure.ReasonUnknownResource, "resource 9 does not exist"))

		_, err := f.svc.ListFreeSlots(context.Background(), 9, "2025-01-10")
		assert.ErrorIs(t, err, failure.ErrUnknownResource)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ListFreeSlots(context.Background(), 1, "10.01.2025")
		assert.ErrorIs(t, err, failure.ErrBadTimeFormat)
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().RequireResource(gomock.Any(), int64(1)).Return(catalogModel.Resource{ID: 1, IsActive: true}, nil)
		f.reservations.EXPECT().ListActiveOn(gomock.Any(), int64(1), day).Return(nil, errors.New("connection reset"))

		_, err := f.svc.ListFreeSlots(context.Background(), 1, "2025-01-10")
		require.Error(t, err)
		assert.False(t, failure.IsExpected(err))
	})
}

func TestSlotService_DailyHeatmap(t *testing.T) {
	resources := []catalogModel.Resource{
		{ID: 1, Name: "Microscope", CategoryName: "Optics", IsActive: true},
		{ID: 2, Name: "Centrifuge", CategoryName: "Lab", IsActive: true},
	}

	t.Run("today", func(t *testing.T) {
		f := newFixture(t)

		second := active(2, at(7, 30), at(8, 30))
		second.ResourceID = 2

		f.catalog.EXPECT().ListActiveResources(gomock.Any()).Return(resources, nil)
		f.reservations.EXPECT().
			ListOccupiedOn(gomock.Any(), day).
			Return([]resModel.Reservation{active(1, at(9, 0), at(10, 30)), second}, nil)

		res, err := f.svc.DailyHeatmap(context.Background(), "2025-01-10")
		require.NoError(t, err)

		require.Len(t, res.Times, 30)
		assert.Equal(t, "07:00", res.Times[0])
		assert.Equal(t, "21:30", res.Times[29])

		require.Len(t, res.Rows, 2)
		assert.Equal(t, "Microscope", res.Rows[0].ResourceName)
		assert.Equal(t, model.StatusFree, res.Rows[0].Cells[0].Status)
		assert.Equal(t, model.StatusBookedFuture, res.Rows[0].Cells[4].Status)
		assert.Equal(t, int64(1), res.Rows[0].Cells[4].ReservationID)

		assert.Equal(t, model.StatusInUse, res.Rows[1].Cells[1].Status)
		assert.Equal(t, model.StatusInUse, res.Rows[1].Cells[2].Status)
		assert.Equal(t, model.StatusFree, res.Rows[1].Cells[3].Status)
	})

	t.Run("other days are tagged per resource", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Lookup(gomock.Any(), cache.HeatmapKey("2025-01-11"), gomock.Any()).Return(false)
		f.catalog.EXPECT().ListActiveResources(gomock.Any()).Return(resources, nil)
		f.reservations.EXPECT().ListOccupiedOn(gomock.Any(), day.AddDate(0, 0, 1)).Return(nil, nil)
		f.cache.EXPECT().Store(
			gomock.Any(),
			cache.FamilyHeatmap,
			cache.HeatmapKey("2025-01-11"),
			gomock.Any(),
			cache.DateTag("2025-01-11"),
			cache.ResourceTag(1),
			cache.ResourceTag(2),
		)

		res, err := f.svc.DailyHeatmap(context.Background(), "2025-01-11")
		require.NoError(t, err)
		assert.Len(t, res.Rows, 2)
	})

	t.Run("catalog failure", func(t *testing.T) {
		f := newFixture(t)

		f.catalog.EXPECT().ListActiveResources(gomock.Any()).Return(nil, errors.New("database error"))

		_, err := f.svc.DailyHeatmap(context.Background(), "2025-01-10")
		assert.Error(t, err)
	})
}
