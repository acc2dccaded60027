package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"wsb/infras/otel"
	"wsb/internal/domains/catalog/model"
	"wsb/internal/domains/catalog/model/dto"
	"wsb/internal/domains/catalog/repository"
	"wsb/shared/cache"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"
	"wsb/shared/failure"

	"github.com/rs/zerolog/log"
)

// Catalog is the read-only gateway over resources, categories and principals.
type Catalog interface {
	ResourceExists(ctx context.Context, resourceID int64) (bool, error)
	ResourceActive(ctx context.Context, resourceID int64) (bool, error)
	PrincipalActive(ctx context.Context, ownerID string) (bool, error)

	// RequireResource fails with UNKNOWN_RESOURCE for unknown ids.
	RequireResource(ctx context.Context, resourceID int64) (model.Resource, error)
	// RequireBookable additionally rejects inactive resources.
	RequireBookable(ctx context.Context, resourceID int64) (model.Resource, error)
	RequireActivePrincipal(ctx context.Context, ownerID string) (model.Principal, error)
	Principal(ctx context.Context, ownerID string) (model.Principal, error)

	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListResources(ctx context.Context, categoryID int64) ([]dto.ResourceResponse, error)
	ListActiveResources(ctx context.Context) ([]model.Resource, error)

	InvalidateResource(ctx context.Context, resourceID int64, isAdmin bool) (int, error)
}

type serviceImpl struct {
	repo  repository.Catalog
	cache cache.ViewCache
	otel  otel.Otel
}

func New(repo repository.Catalog, viewCache cache.ViewCache, otel otel.Otel) Catalog {
	return &serviceImpl{
		repo:  repo,
		cache: viewCache,
		otel:  otel,
	}
}

func activeFilter() gDto.Filter {
	return gDto.Filter{
		Field:    model.FieldIsActive,
		Value:    true,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableResources,
	}
}

func (s *serviceImpl) ResourceExists(ctx context.Context, resourceID int64) (bool, error) {
	resource, err := s.repo.GetResource(ctx, resourceID)
	if err != nil {
		log.Error().Err(err).Int64("resource_id", resourceID).Msg("failed to look up resource")

		return false, fmt.Errorf("failed to look up resource: %w", err)
	}

	return resource.ID != 0, nil
}

func (s *serviceImpl) ResourceActive(ctx context.Context, resourceID int64) (bool, error) {
	resource, err := s.repo.GetResource(ctx, resourceID)
	if err != nil {
		log.Error().Err(err).Int64("resource_id", resourceID).Msg("failed to look up resource")

		return false, fmt.Errorf("failed to look up resource: %w", err)
	}

	return resource.ID != 0 && resource.IsActive, nil
}

func (s *serviceImpl) PrincipalActive(ctx context.Context, ownerID string) (bool, error) {
	principal, err := s.Principal(ctx, ownerID)
	if err != nil {
		return false, err
	}

	return principal.Active(), nil
}

func (s *serviceImpl) RequireResource(ctx context.Context, resourceID int64) (res model.Resource, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RequireResource")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.GetResource(ctx, resourceID)
	if err != nil {
		log.Error().Err(err).Int64("resource_id", resourceID).Msg("failed to look up resource")

		return res, fmt.Errorf("failed to look up resource: %w", err)
	}

	if res.ID == 0 {
		return res, failure.New(failure.ReasonUnknownResource, fmt.Sprintf("resource %d does not exist", resourceID)) //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) RequireBookable(ctx context.Context, resourceID int64) (model.Resource, error) {
	res, err := s.RequireResource(ctx, resourceID)
	if err != nil {
		return res, err
	}

	if !res.IsActive {
		return res, failure.New(failure.ReasonUnknownResource, fmt.Sprintf("resource %d is not available for booking", resourceID)) //nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Principal(ctx context.Context, ownerID string) (model.Principal, error) {
	principal, err := s.repo.GetPrincipal(ctx, ownerID)
	if err != nil {
		log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to look up principal")

		return principal, fmt.Errorf("failed to look up principal: %w", err)
	}

	return principal, nil
}

func (s *serviceImpl) RequireActivePrincipal(ctx context.Context, ownerID string) (model.Principal, error) {
	principal, err := s.Principal(ctx, ownerID)
	if err != nil {
		return principal, err
	}

	if !principal.Active() {
		return principal, failure.New(failure.ReasonInactivePrincipal, "principal is unknown or blocked") //nolint:wrapcheck
	}

	return principal, nil
}

func (s *serviceImpl) ListCategories(ctx context.Context) (res []dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := cache.CategoriesKey()
	if s.cache.Lookup(ctx, cacheKey, &res) {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for categories")

		return res, nil
	}

	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	res = dto.CategoriesFromModels(categories)
	s.cache.Store(ctx, cache.FamilyCategories, cacheKey, res, cache.CatalogTag())

	return res, nil
}

func (s *serviceImpl) ListResources(ctx context.Context, categoryID int64) (res []dto.ResourceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListResources")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := cache.ResourcesKey(categoryID)
	if s.cache.Lookup(ctx, cacheKey, &res) {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for resources")

		return res, nil
	}

	resources, err := s.repo.GetResources(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCategoryID,
				Value:    categoryID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableResources,
			},
			activeFilter(),
		},
	})
	if err != nil {
		log.Error().Err(err).Int64("category_id", categoryID).Msg("failed to get resources")

		return nil, fmt.Errorf("failed to get resources: %w", err)
	}

	res = dto.ResourcesFromModels(resources)

	tags := []string{cache.CatalogTag(), cache.CategoryTag(categoryID)}
	for _, r := range resources {
		tags = append(tags, cache.ResourceTag(r.ID))
	}

	s.cache.Store(ctx, cache.FamilyResources, cacheKey, res, tags...)

	return res, nil
}

func (s *serviceImpl) ListActiveResources(ctx context.Context) ([]model.Resource, error) {
	resources, err := s.repo.GetResources(ctx, gDto.FilterGroup{Filters: []any{activeFilter()}})
	if err != nil {
		log.Error().Err(err).Msg("failed to get active resources")

		return nil, fmt.Errorf("failed to get active resources: %w", err)
	}

	return resources, nil
}

// InvalidateResource drops every cached view derived from the resource. It
// is the hook for catalog edits made outside this service.
func (s *serviceImpl) InvalidateResource(ctx context.Context, resourceID int64, isAdmin bool) (removed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".InvalidateResource")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !isAdmin {
		return 0, failure.New(failure.ReasonDenied, "only administrators can invalidate cached views") //nolint:wrapcheck
	}

	removed = s.cache.InvalidateTags(ctx, cache.ResourceTag(resourceID), cache.CatalogTag())

	log.Info().Int64("resource_id", resourceID).Int("removed", removed).Msg("invalidated cached views for resource")

	return removed, nil
}
