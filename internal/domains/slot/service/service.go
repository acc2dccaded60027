package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"wsb/infras/otel"
	catalogService "wsb/internal/domains/catalog/service"
	resModel "wsb/internal/domains/reservation/model"
	resRepo "wsb/internal/domains/reservation/repository"
	"wsb/internal/domains/slot/model/dto"
	"wsb/shared/cache"
	"wsb/shared/calendar"
	"wsb/shared/constant"

	"github.com/rs/zerolog/log"
)

// Slot serves the derived read views: free slots of a resource and the daily
// heat-map. Views of the current day are never cached since their content
// moves with the clock.
type Slot interface {
	ListFreeSlots(ctx context.Context, resourceID int64, date string) (dto.SlotsResponse, error)
	DailyHeatmap(ctx context.Context, date string) (dto.HeatmapResponse, error)
}

type serviceImpl struct {
	reservations resRepo.Reservation
	catalog      catalogService.Catalog
	projector    *Projector
	cal          *calendar.Calendar
	cache        cache.ViewCache
	otel         otel.Otel
}

func New(
	reservations resRepo.Reservation,
	catalog catalogService.Catalog,
	cal *calendar.Calendar,
	viewCache cache.ViewCache,
	otel otel.Otel,
) Slot {
	return &serviceImpl{
		reservations: reservations,
		catalog:      catalog,
		projector:    NewProjector(cal),
		cal:          cal,
		cache:        viewCache,
		otel:         otel,
	}
}

func (s *serviceImpl) ListFreeSlots(ctx context.Context, resourceID int64, date string) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListFreeSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := s.cal.ParseDate(date)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if _, err = s.catalog.RequireResource(ctx, resourceID); err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheable := !s.cal.IsToday(day)
	cacheKey := cache.SlotsKey(resourceID, date)

	if cacheable && s.cache.Lookup(ctx, cacheKey, &res) {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	reservations, err := s.reservations.ListActiveOn(ctx, resourceID, day)
	if err != nil {
		log.Error().Err(err).Int64("resource_id", resourceID).Str("date", date).Msg("failed to load reservations for slots")

		return res, fmt.Errorf("failed to load reservations for slots: %w", err)
	}

	res.FromModels(resourceID, date, s.projector.FreeSlots(day, reservations, s.cal.Now()), s.cal)

	if cacheable {
		s.cache.Store(ctx, cache.FamilySlots, cacheKey, res, cache.ResourceTag(resourceID), cache.DateTag(date))
	}

	return res, nil
}

func (s *serviceImpl) DailyHeatmap(ctx context.Context, date string) (res dto.HeatmapResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DailyHeatmap")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := s.cal.ParseDate(date)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	cacheable := !s.cal.IsToday(day)
	cacheKey := cache.HeatmapKey(date)

	if cacheable && s.cache.Lookup(ctx, cacheKey, &res) {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for heatmap")

		return res, nil
	}

	resources, err := s.catalog.ListActiveResources(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	reservations, err := s.reservations.ListOccupiedOn(ctx, day)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("failed to load reservations for heatmap")

		return res, fmt.Errorf("failed to load reservations for heatmap: %w", err)
	}

	byResource := make(map[int64][]resModel.Reservation, len(resources))
	for _, r := range reservations {
		byResource[r.ResourceID] = append(byResource[r.ResourceID], r)
	}

	now := s.cal.Now()
	grid := s.cal.SlotGrid(day)

	res.Date = date
	res.Times = make([]string, len(grid))

	for i, t := range grid {
		res.Times[i] = s.cal.FormatTime(t)
	}

	res.Rows = make([]dto.HeatmapRow, len(resources))
	tags := []string{cache.DateTag(date)}

	for i, resource := range resources {
		res.Rows[i] = dto.HeatmapRow{
			ResourceID:   resource.ID,
			ResourceName: resource.Name,
			CategoryName: resource.CategoryName,
			Cells:        dto.CellsFromModels(s.projector.Cells(day, byResource[resource.ID], now), s.cal),
		}

		tags = append(tags, cache.ResourceTag(resource.ID))
	}

	if cacheable {
		s.cache.Store(ctx, cache.FamilyHeatmap, cacheKey, res, tags...)
	}

	return res, nil
}
