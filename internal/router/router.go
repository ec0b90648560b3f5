package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"steamsync-api/internal/handler"
	"steamsync-api/internal/middleware"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler          *handler.Handler
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	GameHandler      *handler.GameHandler
	InventoryHandler *handler.InventoryHandler
	AdminHandler     *handler.AdminHandler
	AuthMiddleware   func(http.Handler) http.Handler
	Metrics          http.Handler
	AllowedOrigins   []string
	Logger           *slog.Logger
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.NewRecovery(cfg.Logger))
	r.Use(middleware.NewLogging(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := cfg.AuthMiddleware
	if auth == nil {
		// fail closed when no verifier is wired
		auth = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		}
	}

	// PUBLIC routes
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
		r.Get("/api/v1/health", cfg.Handler.Health)
		r.Get("/api/v1/ready", cfg.Handler.Ready)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.AuthHandler != nil {
		r.Post("/login", cfg.AuthHandler.Login)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.UserHandler != nil {
			r.Route("/users", func(r chi.Router) {
				// registration is public
				r.Post("/", cfg.UserHandler.Create)

				r.Group(func(r chi.Router) {
					r.Use(auth)

					r.Get("/", cfg.UserHandler.List)
					r.Route("/{steam_id}", func(r chi.Router) {
						r.Get("/", cfg.UserHandler.Get)
						r.Patch("/", cfg.UserHandler.Refresh)
						r.With(middleware.RequireAdmin).Put("/", cfg.UserHandler.Update)
						r.With(middleware.RequireAdmin).Delete("/", cfg.UserHandler.Delete)

						r.Get("/games", cfg.UserHandler.ListGames)
						r.Post("/games", cfg.UserHandler.BindGame)
						r.Get("/inventory", cfg.UserHandler.ListInventory)
					})
				})
			})
		}

		// AUTHENTICATED routes
		r.Group(func(r chi.Router) {
			r.Use(auth)

			if cfg.GameHandler != nil {
				r.Route("/games", func(r chi.Router) {
					r.Post("/", cfg.GameHandler.Ensure)
					r.Get("/{app_id}", cfg.GameHandler.Get)
				})
			}

			if cfg.InventoryHandler != nil {
				r.Route("/inventories", func(r chi.Router) {
					r.Post("/", cfg.InventoryHandler.CreateContainer)
					r.Post("/sync", cfg.InventoryHandler.Sync)
				})
			}

			if cfg.AdminHandler != nil {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/admins", cfg.AdminHandler.CreateAdmin)
					r.Get("/admin/stats", cfg.AdminHandler.GetStats)
				})
			}
		})
	})

	return r
}
