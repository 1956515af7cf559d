package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-storefront/internal/config"
	"go-storefront/internal/handler"
	"go-storefront/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Upload  *handler.UploadHandler
	Health  *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", h.Health.Check)
	r.Get(cfg.UploadURLPrefix+"/{name}", h.Upload.Serve)

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", h.Auth.Register)
		api.Post("/login", h.Auth.Login)
		api.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)

		api.Get("/products", h.Product.List)
		api.Get("/products/{id}", h.Product.Get)
		api.With(authMiddleware.RequireAuth).Post("/products", h.Product.Create)
		api.With(authMiddleware.RequireAuth).Put("/products/{id}", h.Product.Update)
		api.With(authMiddleware.RequireAuth).Delete("/products/{id}", h.Product.Delete)

		api.With(authMiddleware.RequireAuth).Post("/upload", h.Upload.Upload)
	})

	return r
}
