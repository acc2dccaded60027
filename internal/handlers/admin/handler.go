package admin

import (
	"net/http"

	"wsb/infras/otel"
	catalogService "wsb/internal/domains/catalog/service"
	notifService "wsb/internal/domains/notification/service"
	"wsb/shared"
	"wsb/shared/constant"
	"wsb/shared/failure"
	"wsb/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type InvalidateResponse struct {
	ResourceID int64 `json:"resource_id"`
	Removed    int   `json:"removed"`
}

type RequeueResponse struct {
	Requeued int `json:"requeued"`
}

// Handler exposes operator hooks. Routes are restricted to administrators
// by the permission table; the services check the admin bit again.
type Handler struct {
	catalog   catalogService.Catalog
	scheduler notifService.Scheduler
	otel      otel.Otel
}

func New(catalog catalogService.Catalog, scheduler notifService.Scheduler, otel otel.Otel) Handler {
	return Handler{
		catalog:   catalog,
		scheduler: scheduler,
		otel:      otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Post("/resources/{id}/cache/invalidate", handler.InvalidateResourceCache)
		routerGroup.Get("/notifications/stats", handler.NotificationStats)
		routerGroup.Post("/notifications/requeue", handler.RequeueFailedNotifications)
	})
}

// InvalidateResourceCache drops every cached view of a resource after an external catalog edit.
// @Summary Invalidate cached views of a resource
// @Tags Admin
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} response.Data[InvalidateResponse]
// @Failure 403 {object} response.Error
// @Router /v1/admin/resources/{id}/cache/invalidate [post]
// @Security BearerAuth
func (handler *Handler) InvalidateResourceCache(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".InvalidateResourceCache")
	defer scope.End()

	resourceID, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	actorID, isAdmin := shared.Actor(ctx)

	removed, err := handler.catalog.InvalidateResource(ctx, resourceID, isAdmin)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("resource_id", resourceID).Msg("failed to invalidate resource cache")

		response.WithError(w, err)

		return
	}

	log.Info().Int64("resource_id", resourceID).Str("actor_id", actorID).Int("removed", removed).Msg("resource cache invalidated")

	response.WithJSON(w, http.StatusOK, InvalidateResponse{ResourceID: resourceID, Removed: removed})
}

// NotificationStats counts notification events per status.
// @Summary Notification queue statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[map[string]int]
// @Failure 403 {object} response.Error
// @Router /v1/admin/notifications/stats [get]
// @Security BearerAuth
func (handler *Handler) NotificationStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".NotificationStats")
	defer scope.End()

	if _, isAdmin := shared.Actor(ctx); !isAdmin {
		response.WithError(w, failure.ForbiddenError)

		return
	}

	stats, err := handler.scheduler.Stats(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, stats)
}

// RequeueFailedNotifications returns FAILED events to PENDING.
// @Summary Requeue failed notifications
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Data[RequeueResponse]
// @Failure 403 {object} response.Error
// @Router /v1/admin/notifications/requeue [post]
// @Security BearerAuth
func (handler *Handler) RequeueFailedNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RequeueFailedNotifications")
	defer scope.End()

	if _, isAdmin := shared.Actor(ctx); !isAdmin {
		response.WithError(w, failure.ForbiddenError)

		return
	}

	requeued, err := handler.scheduler.RequeueFailed(ctx)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, RequeueResponse{Requeued: requeued})
}
