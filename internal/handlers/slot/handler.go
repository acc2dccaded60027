package slot

import (
	"net/http"

	"wsb/infras/otel"
	"wsb/internal/domains/slot/service"
	"wsb/shared"
	"wsb/shared/constant"
	"wsb/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/resources/{id}/slots", handler.ListFreeSlots)
	router.Get("/heatmap", handler.DailyHeatmap)
}

// ListFreeSlots returns every start time of the day with its longest bookable duration.
// @Summary Free slots of a resource
// @Tags Slot
// @Produce json
// @Param id path int true "Resource ID"
// @Param date query string true "Day in YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.SlotsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/resources/{id}/slots [get]
func (handler *Handler) ListFreeSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListFreeSlots")
	defer scope.End()

	resourceID, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	date := r.URL.Query().Get(constant.RequestParamDate)

	slots, err := handler.service.ListFreeSlots(ctx, resourceID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("resource_id", resourceID).Str("date", date).Msg("failed to list free slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// DailyHeatmap returns the status of every slot of every active resource.
// @Summary Daily occupancy heat-map
// @Tags Slot
// @Produce json
// @Param date query string true "Day in YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.HeatmapResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/heatmap [get]
func (handler *Handler) DailyHeatmap(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DailyHeatmap")
	defer scope.End()

	date := r.URL.Query().Get(constant.RequestParamDate)

	heatmap, err := handler.service.DailyHeatmap(ctx, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("date", date).Msg("failed to build heatmap")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, heatmap)
}
