//go:build wireinject
// +build wireinject

package di

import (
	"eventro/config"
	"eventro/infras/jwt"
	"eventro/infras/kafka"
	"eventro/infras/otel"
	"eventro/infras/postgres"
	"eventro/infras/redis"
	"eventro/infras/s3"
	"eventro/infras/sslcommerz"
	"eventro/permissions"
	"eventro/shared/cache"
	"eventro/transport/http"
	"eventro/transport/http/middleware"
	"eventro/transport/http/router"

	"github.com/google/wire"

	authService "eventro/internal/domains/auth/service"
	bookingRepository "eventro/internal/domains/booking/repository"
	bookingService "eventro/internal/domains/booking/service"
	eventRepository "eventro/internal/domains/event/repository"
	eventService "eventro/internal/domains/event/service"
	paymentRepository "eventro/internal/domains/payment/repository"
	paymentService "eventro/internal/domains/payment/service"
	reviewRepository "eventro/internal/domains/review/repository"
	reviewService "eventro/internal/domains/review/service"
	userRepository "eventro/internal/domains/user/repository"
	userService "eventro/internal/domains/user/service"

	authHandler "eventro/internal/handlers/auth"
	bookingHandler "eventro/internal/handlers/booking"
	eventHandler "eventro/internal/handlers/event"
	paymentHandler "eventro/internal/handlers/payment"
	reviewHandler "eventro/internal/handlers/review"
	userHandler "eventro/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	sslcommerz.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var eventDomain = wire.NewSet(
	eventRepository.New,
	eventRepository.NewBookmark,
	eventService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentRepository.New,
	paymentService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	eventDomain,
	bookingDomain,
	paymentDomain,
	reviewDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	eventHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reviewHandler.New,
	router.New,
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
