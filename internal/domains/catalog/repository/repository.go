package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks -mock_names=Catalog=MockCatalogRepository

import (
	"context"
	"fmt"

	"wsb/infras/otel"
	"wsb/infras/postgres"
	"wsb/internal/domains/catalog/model"
	"wsb/shared"
	gDto "wsb/shared/dto"
	gRepo "wsb/shared/repository"
)

// Catalog reads categories, resources and principals. The tables are owned
// by an external inventory system.
type Catalog interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetResources(ctx context.Context, filter gDto.FilterGroup) ([]model.Resource, error)
	GetResource(ctx context.Context, id int64) (model.Resource, error)
	GetPrincipal(ctx context.Context, id string) (model.Principal, error)
}

type repositoryImpl struct {
	categories gRepo.Repository[model.Category]
	resources  gRepo.Repository[model.Resource]
	principals gRepo.Repository[model.Principal]
}

func New(db *postgres.Connection, otel otel.Otel) Catalog {
	return &repositoryImpl{
		categories: gRepo.NewRepository[model.Category](model.EntityCategory, model.TableCategories, model.FieldID, db, otel),
		resources:  gRepo.NewRepository[model.Resource](model.EntityResource, model.TableResources, model.FieldID, db, otel),
		principals: gRepo.NewRepository[model.Principal](model.EntityPrincipal, model.TablePrincipals, model.FieldID, db, otel),
	}
}

func byName() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}
}

func (r *repositoryImpl) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := r.categories.GetAll(ctx, byName(), gDto.FilterGroup{})
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return categories, nil
}

func (r *repositoryImpl) GetResources(ctx context.Context, filter gDto.FilterGroup) ([]model.Resource, error) {
	resources, err := r.resources.GetAll(ctx, byName(), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get resources: %w", err)
	}

	return resources, nil
}

// GetResource returns a zero Resource when the id is unknown.
func (r *repositoryImpl) GetResource(ctx context.Context, id int64) (model.Resource, error) {
	resource, err := r.resources.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableResources))
	if err != nil {
		return resource, fmt.Errorf("failed to get resource: %w", err)
	}

	return resource, nil
}

// GetPrincipal returns a zero Principal when the id is unknown.
func (r *repositoryImpl) GetPrincipal(ctx context.Context, id string) (model.Principal, error) {
	principal, err := r.principals.Get(ctx, shared.FilterByID(id, model.FieldID, model.TablePrincipals))
	if err != nil {
		return principal, fmt.Errorf("failed to get principal: %w", err)
	}

	return principal, nil
}
