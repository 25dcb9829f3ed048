package router

import (
	"eventro/config"
	"eventro/internal/handlers/auth"
	"eventro/internal/handlers/booking"
	"eventro/internal/handlers/event"
	"eventro/internal/handlers/payment"
	"eventro/internal/handlers/review"
	"eventro/internal/handlers/user"
	"eventro/transport/http/middleware"
	"eventro/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "eventro/docs" // swagger docs
)

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Event   event.Handler
	Booking booking.Handler
	Payment payment.Handler
	Review  review.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthRole       middleware.AuthRole
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.RateLimit())

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusOK, "OK")
	})

	router.Mount("/swagger", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Event.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authRole middleware.AuthRole, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthRole:       authRole,
		Config:         cfg,
	}
}
