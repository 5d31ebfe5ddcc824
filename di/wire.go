//go:build wireinject
// +build wireinject

package di

import (
	"travelnest/config"
	"travelnest/infras/jwt"
	"travelnest/infras/kafka"
	"travelnest/infras/otel"
	"travelnest/infras/postgres"
	"travelnest/infras/redis"
	"travelnest/infras/s3"
	"travelnest/permissions"
	"travelnest/shared/cache"
	"travelnest/shared/metrics"
	"travelnest/transport/http"
	"travelnest/transport/http/middleware"
	"travelnest/transport/http/router"

	authService "travelnest/internal/domains/auth/service"
	bookingRepository "travelnest/internal/domains/booking/repository"
	bookingService "travelnest/internal/domains/booking/service"
	destinationRepository "travelnest/internal/domains/destination/repository"
	destinationService "travelnest/internal/domains/destination/service"
	hotelRepository "travelnest/internal/domains/hotel/repository"
	hotelService "travelnest/internal/domains/hotel/service"
	paymentRepository "travelnest/internal/domains/payment/repository"
	reportRepository "travelnest/internal/domains/report/repository"
	reportService "travelnest/internal/domains/report/service"
	reviewRepository "travelnest/internal/domains/review/repository"
	reviewService "travelnest/internal/domains/review/service"
	roomRepository "travelnest/internal/domains/room/repository"
	roomService "travelnest/internal/domains/room/service"
	userRepository "travelnest/internal/domains/user/repository"
	userService "travelnest/internal/domains/user/service"

	authHandler "travelnest/internal/handlers/auth"
	bookingHandler "travelnest/internal/handlers/booking"
	destinationHandler "travelnest/internal/handlers/destination"
	hotelHandler "travelnest/internal/handlers/hotel"
	reportHandler "travelnest/internal/handlers/report"
	reviewHandler "travelnest/internal/handlers/review"
	roomHandler "travelnest/internal/handlers/room"
	userHandler "travelnest/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	metrics.New,
)

var repositories = wire.NewSet(
	userRepository.New,
	destinationRepository.New,
	hotelRepository.New,
	roomRepository.New,
	bookingRepository.New,
	paymentRepository.New,
	reviewRepository.New,
	reportRepository.New,
)

var domains = wire.NewSet(
	repositories,
	authService.New,
	userService.New,
	destinationService.New,
	hotelService.New,
	roomService.New,
	bookingService.New,
	reviewService.New,
	reportService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	destinationHandler.New,
	hotelHandler.New,
	roomHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	reportHandler.New,
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

// InitializeConsumer builds the dependencies of the booking event consumer.
func InitializeConsumer() *Consumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		wire.Struct(new(Consumer), "*"),
	)

	return &Consumer{}
}
