package router

import (
	"travelnest/internal/handlers/auth"
	"travelnest/internal/handlers/booking"
	"travelnest/internal/handlers/destination"
	"travelnest/internal/handlers/hotel"
	"travelnest/internal/handlers/report"
	"travelnest/internal/handlers/review"
	"travelnest/internal/handlers/room"
	"travelnest/internal/handlers/user"
	"travelnest/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	Destination destination.Handler
	Hotel       hotel.Handler
	Room        room.Handler
	Booking     booking.Handler
	Review      review.Handler
	User        user.Handler
	Report      report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

// SetupRoutes installs the request pipeline on router and mounts every domain
// under /v1 behind authentication and role checks.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		r.App.RequestID,
		r.App.Tracing,
		r.App.Metrics,
		r.App.RateLimit(),
	)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(
			r.AuthRole.APIKey,
			r.AuthRole.Auth,
			r.AuthRole.RBAC,
		)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Destination.Router(routerGroup)
		r.DomainHandlers.Hotel.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
	}
}
