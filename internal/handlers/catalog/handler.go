package catalog

import (
	"net/http"

	"wsb/infras/otel"
	"wsb/internal/domains/catalog/service"
	"wsb/shared"
	"wsb/shared/constant"
	"wsb/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/categories", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.ListCategories)
		routerGroup.Get("/{id}/resources", handler.ListResources)
	})
}

// ListCategories returns every resource category.
// @Summary List categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Data[[]dto.CategoryResponse]
// @Failure 503 {object} response.Error
// @Router /v1/categories [get]
func (handler *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListCategories")
	defer scope.End()

	categories, err := handler.service.ListCategories(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list categories")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, categories)
}

// ListResources returns the active resources of a category.
// @Summary List resources of a category
// @Tags Catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Data[[]dto.ResourceResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/categories/{id}/resources [get]
func (handler *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListResources")
	defer scope.End()

	categoryID, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	resources, err := handler.service.ListResources(ctx, categoryID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("category_id", categoryID).Msg("failed to list resources")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, resources)
}
