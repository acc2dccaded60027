package router

import (
	_ "wsb/docs" // registers the OpenAPI document served under /swagger
	"wsb/internal/handlers/admin"
	"wsb/internal/handlers/catalog"
	"wsb/internal/handlers/health"
	"wsb/internal/handlers/reservation"
	"wsb/internal/handlers/slot"
	"wsb/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerDocURL = "/swagger/doc.json"

type DomainHandlers struct {
	Health      health.Handler
	Catalog     catalog.Handler
	Slot        slot.Handler
	Reservation reservation.Handler
	Admin       admin.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		r.App.RequestID,
		r.App.Tracing,
		r.App.CORS(),
		r.App.RateLimit(),
	)

	r.DomainHandlers.Health.Router(router)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerDocURL)))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(
			r.AuthRole.APIKey,
			r.AuthRole.Auth,
			r.AuthRole.RBAC,
		)

		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
	}
}
