package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pariskandee/real-estate/internal/adapter/http/handler"
	"github.com/pariskandee/real-estate/internal/adapter/http/middleware"
	"github.com/pariskandee/real-estate/internal/platform/logger"
	"github.com/pariskandee/real-estate/internal/platform/metrics"
)

// New assembles the full route table described in the API contract.
func New(
	listings *handler.ListingHandler,
	users *handler.UserHandler,
	jwtSecret string,
	serviceName string,
	m *metrics.Manager,
	log *logger.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/properties", func(r chi.Router) {
		r.Get("/", listings.Browse)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, log))
			r.Use(middleware.RequireAdmin(log))

			r.Get("/admin/list", listings.AdminList)
			r.Patch("/{id}/approve", listings.Approve)
			r.Delete("/{id}", listings.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalJWTAuth(jwtSecret, log))
			r.Get("/{id}", listings.GetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, log))
			r.Post("/", listings.Submit)
			r.Put("/{id}", listings.Update)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, log))
			r.Get("/me", users.Me)
			r.Get("/{id}/properties", users.Properties)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, log))
			r.Use(middleware.RequireAdmin(log))
			r.Get("/", users.List)
			r.Patch("/{id}/role", users.SetRole)
		})
	})

	return r
}
