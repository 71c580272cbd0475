// Package app предоставляет маршруты для основного приложения.
package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/http/handlers/auth/login"
	"github.com/udara-chinthaka/ems/internal/http/handlers/auth/profile"
	"github.com/udara-chinthaka/ems/internal/http/handlers/auth/register"
	eventpackagecreate "github.com/udara-chinthaka/ems/internal/http/handlers/eventpackage/create"
	eventpackagelist "github.com/udara-chinthaka/ems/internal/http/handlers/eventpackage/list"
	eventpackageread "github.com/udara-chinthaka/ems/internal/http/handlers/eventpackage/read"
	eventpackageremove "github.com/udara-chinthaka/ems/internal/http/handlers/eventpackage/remove"
	eventpackageupdate "github.com/udara-chinthaka/ems/internal/http/handlers/eventpackage/update"
	eventtypecreate "github.com/udara-chinthaka/ems/internal/http/handlers/eventtype/create"
	eventtypelist "github.com/udara-chinthaka/ems/internal/http/handlers/eventtype/list"
	eventtyperemove "github.com/udara-chinthaka/ems/internal/http/handlers/eventtype/remove"
	eventtypeupdate "github.com/udara-chinthaka/ems/internal/http/handlers/eventtype/update"
	"github.com/udara-chinthaka/ems/internal/http/handlers/health"
	organizerlist "github.com/udara-chinthaka/ems/internal/http/handlers/organizer/list"
	organizerread "github.com/udara-chinthaka/ems/internal/http/handlers/organizer/read"
	requestcreate "github.com/udara-chinthaka/ems/internal/http/handlers/request/create"
	requestfeedback "github.com/udara-chinthaka/ems/internal/http/handlers/request/feedback"
	requestlist "github.com/udara-chinthaka/ems/internal/http/handlers/request/list"
	requestread "github.com/udara-chinthaka/ems/internal/http/handlers/request/read"
	requestupdatestatus "github.com/udara-chinthaka/ems/internal/http/handlers/request/updatestatus"
	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/lib/jwt"
	authservice "github.com/udara-chinthaka/ems/internal/services/auth"
	catalogservice "github.com/udara-chinthaka/ems/internal/services/catalog"
	organizerservice "github.com/udara-chinthaka/ems/internal/services/organizer"
	requestservice "github.com/udara-chinthaka/ems/internal/services/request"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	catalogService *catalogservice.CatalogService,
	requestService *requestservice.RequestService,
	organizerService *organizerservice.OrganizerService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register/organizer", register.NewOrganizer(logger, authService).ServeHTTP)
		r.Post("/register/requester", register.NewRequester(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/organizers", organizerlist.New(logger, organizerService).ServeHTTP)
		r.Get("/organizers/{id}", organizerread.New(logger, organizerService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Собственный профиль доступен обеим ролям
			r.Get("/profile", profile.New(logger, authService).ServeHTTP)

			// Каталог организатора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(string(domain.RoleOrganizer), logger))
				r.Post("/event-types", eventtypecreate.New(logger, catalogService).ServeHTTP)
				r.Get("/event-types", eventtypelist.New(logger, catalogService).ServeHTTP)
				r.Put("/event-types/{id}", eventtypeupdate.New(logger, catalogService).ServeHTTP)
				r.Delete("/event-types/{id}", eventtyperemove.New(logger, catalogService).ServeHTTP)
				r.Post("/event-packages", eventpackagecreate.New(logger, catalogService).ServeHTTP)
				r.Put("/event-packages/{id}", eventpackageupdate.New(logger, catalogService).ServeHTTP)
				r.Delete("/event-packages/{id}", eventpackageremove.New(logger, catalogService).ServeHTTP)
			})

			// Просмотр каталога доступен обеим ролям
			r.Get("/event-packages", eventpackagelist.New(logger, catalogService).ServeHTTP)
			r.Get("/event-packages/{id}", eventpackageread.New(logger, catalogService).ServeHTTP)

			// Заявки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(string(domain.RoleRequester), logger))
				r.Post("/requests", requestcreate.New(logger, requestService).ServeHTTP)
				r.Post("/requests/{id}/feedback", requestfeedback.New(logger, requestService).ServeHTTP)
			})
			r.Get("/requests", requestlist.New(logger, requestService).ServeHTTP)
			r.Get("/requests/{id}", requestread.New(logger, requestService).ServeHTTP)
			r.Patch("/requests/{id}/status", requestupdatestatus.New(logger, requestService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
