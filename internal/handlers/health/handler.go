package health

import (
	"context"
	"net/http"
	"time"

	"wsb/infras/otel"
	"wsb/shared/constant"
	"wsb/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by the postgres connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

type Handler struct {
	db    Pinger
	redis *goRedis.Client
	otel  otel.Otel
}

func New(db Pinger, redis *goRedis.Client, otel otel.Otel) Handler {
	return Handler{
		db:    db,
		redis: redis,
		otel:  otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/healthz", handler.Healthz)
}

// Healthz reports 503 when Postgres is unreachable. A Redis outage only
// degrades caching and is reported without failing the check.
// @Summary Liveness and dependency check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Failure 503 {object} response.Message
// @Router /healthz [get]
func (handler *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Healthz")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := Status{Postgres: "up", Redis: "up"}

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable")

		status.Redis = "down"
	}

	if err := handler.db.Ping(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("postgres unreachable")

		response.WithUnhealthy(w)

		return
	}

	response.WithJSON(w, http.StatusOK, status)
}
