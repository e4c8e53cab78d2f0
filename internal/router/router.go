package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-api-starter/internal/config"
	"go-api-starter/internal/handler"
	"go-api-starter/internal/middleware"
	"go-api-starter/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	studentHandler *handler.StudentHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", authHandler.Login)
			auth.Post("/register", authHandler.Register)
			auth.Post("/refresh", authHandler.Refresh)
			auth.With(authMiddleware.RequireUser).Post("/logout", authHandler.Logout)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireUser)
			users.Get("/me", userHandler.Me)
			users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/", userHandler.List)
			users.Get("/{id}", userHandler.Get)
			users.Put("/{id}", userHandler.Update)
			users.With(authMiddleware.RequireRoles(model.RoleAdmin)).Delete("/{id}", userHandler.Deactivate)
		})

		api.Route("/students", func(students chi.Router) {
			students.Use(authMiddleware.RequireUser)
			students.Get("/", studentHandler.List)
			students.Post("/", studentHandler.Create)
			students.Get("/{id}", studentHandler.Get)
			students.Put("/{id}", studentHandler.Update)
			students.With(authMiddleware.RequireRoles(model.RoleAdmin)).Delete("/{id}", studentHandler.Delete)
		})
	})

	return r
}
