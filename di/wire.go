//go:build wireinject
// +build wireinject

package di

import (
	"wsb/config"
	"wsb/infras/jwt"
	"wsb/infras/kafka"
	"wsb/infras/otel"
	"wsb/infras/postgres"
	"wsb/infras/redis"
	"wsb/permissions"
	"wsb/shared/cache"
	"wsb/shared/calendar"
	"wsb/transport/http"
	"wsb/transport/http/middleware"
	"wsb/transport/http/router"

	catalogRepository "wsb/internal/domains/catalog/repository"
	catalogService "wsb/internal/domains/catalog/service"
	notifChannel "wsb/internal/domains/notification/channel"
	notifRepository "wsb/internal/domains/notification/repository"
	notifService "wsb/internal/domains/notification/service"
	notifWorker "wsb/internal/domains/notification/worker"
	reservationRepository "wsb/internal/domains/reservation/repository"
	reservationService "wsb/internal/domains/reservation/service"
	slotService "wsb/internal/domains/slot/service"

	adminHandler "wsb/internal/handlers/admin"
	catalogHandler "wsb/internal/handlers/catalog"
	healthHandler "wsb/internal/handlers/health"
	reservationHandler "wsb/internal/handlers/reservation"
	slotHandler "wsb/internal/handlers/slot"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
)

var middlewares = wire.NewSet(
	jwt.New,
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	calendar.New,
	cache.NewRedisCache,
	cache.NewViewCache,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var notificationDomain = wire.NewSet(
	notifRepository.New,
	notifService.New,
)

var domains = wire.NewSet(
	catalogDomain,
	reservationDomain,
	notificationDomain,
	slotService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	wire.Bind(new(healthHandler.Pinger), new(*postgres.Connection)),
	healthHandler.New,
	catalogHandler.New,
	slotHandler.New,
	reservationHandler.New,
	adminHandler.New,
	router.New,
)

var dispatching = wire.NewSet(
	kafka.New,
	notifChannel.NewChannels,
	notifWorker.NewDispatcher,
	notifWorker.NewPool,
	wire.Struct(new(Worker), "*"),
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *Worker {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		catalogDomain,
		reservationRepository.New,
		notificationDomain,
		dispatching,
	)

	return &Worker{}
}

func InitializeOperator() *Operator {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		calendar.New,
		reservationRepository.New,
		notificationDomain,
		wire.Struct(new(Operator), "*"),
	)

	return &Operator{}
}
