package reservation

import (
	"context"
	"net/http"

	"wsb/infras/otel"
	"wsb/internal/domains/reservation/model/dto"
	"wsb/internal/domains/reservation/service"
	"wsb/shared"
	"wsb/shared/constant"
	gDto "wsb/shared/dto"
	"wsb/shared/failure"
	"wsb/shared/validator"
	"wsb/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.ListReservations)
		routerGroup.Get("/mine", handler.ListMyReservations)
		routerGroup.Get("/{id}", handler.GetReservation)
		routerGroup.Post("/{id}/cancel", handler.CancelReservation)
		routerGroup.Post("/{id}/finish", handler.FinishReservation)
		routerGroup.Post("/{id}/extend", handler.ExtendReservation)
	})
}

// actor returns the authenticated caller or writes 401.
func actor(w http.ResponseWriter, r *http.Request) (string, bool, bool) {
	actorID, isAdmin := shared.Actor(r.Context())
	if actorID == "" {
		log.Error().Msg("failed to get actor from context")
		response.WithError(w, failure.Unauthorized("unauthorized"))

		return "", false, false
	}

	return actorID, isAdmin, true
}

// CreateReservation books a resource for the caller.
// @Summary Create a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	ownerID, _, ok := actor(w, r)
	if !ok {
		return
	}

	req := dto.CreateReservationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	created, err := handler.service.Create(ctx, ownerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("reservation created by " + ownerID)

	response.WithJSON(w, http.StatusCreated, created)
}

// ListReservations lists every reservation, optionally for one day.
// @Summary List all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param date query string false "Day in YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.GetReservationsResponse]
// @Failure 403 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListReservations")
	defer scope.End()

	_, isAdmin, ok := actor(w, r)
	if !ok {
		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reservations, err := handler.service.ListAll(ctx, r.URL.Query().Get(constant.RequestParamDate), queryParams, isAdmin)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// ListMyReservations lists the caller's reservations, optionally for one day.
// @Summary List my reservations
// @Tags Reservation
// @Produce json
// @Param date query string false "Day in YYYY-MM-DD"
// @Success 200 {object} response.Data[[]dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListMyReservations")
	defer scope.End()

	ownerID, _, ok := actor(w, r)
	if !ok {
		return
	}

	reservations, err := handler.service.ListMine(ctx, ownerID, r.URL.Query().Get(constant.RequestParamDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("owner_id", ownerID).Msg("failed to list own reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservation returns one reservation to its owner or an administrator.
// @Summary Get a reservation
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservation")
	defer scope.End()

	actorID, isAdmin, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	found, err := handler.service.Get(ctx, id, actorID, isAdmin)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("reservation_id", id).Msg("failed to get reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, found)
}

// CancelReservation cancels an active reservation.
// @Summary Cancel a reservation
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CancelReservation", handler.service.Cancel)
}

// FinishReservation ends an in-progress reservation now.
// @Summary Finish a reservation early
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/finish [post]
// @Security BearerAuth
func (handler *Handler) FinishReservation(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "FinishReservation", handler.service.Finish)
}

type transitionFunc func(ctx context.Context, id int64, actorID string, isAdmin bool) (dto.ReservationResponse, error)

func (handler *Handler) transition(w http.ResponseWriter, r *http.Request, name string, apply transitionFunc) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	actorID, isAdmin, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	updated, err := apply(ctx, id, actorID, isAdmin)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("reservation_id", id).Str("actor_id", actorID).Msg("failed to transition reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, updated)
}

// ExtendReservation moves the end of an active reservation later.
// @Summary Extend a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param request body dto.ExtendReservationRequest true "Extend Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/extend [post]
// @Security BearerAuth
func (handler *Handler) ExtendReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExtendReservation")
	defer scope.End()

	actorID, isAdmin, ok := actor(w, r)
	if !ok {
		return
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.ExtendReservationRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	extended, err := handler.service.Extend(ctx, id, actorID, req.AddedMinutes, isAdmin)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("reservation_id", id).Int("added_minutes", req.AddedMinutes).Msg("failed to extend reservation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, extended)
}
