package students

import (
	"net/http"

	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(jwtSecret))
		r.Get("/", ListHandler)
		r.Post("/", CreateHandler)
		r.Post("/import", ImportHandler)
		r.Get("/{id}", GetHandler)
		r.Put("/{id}", UpdateHandler)
		r.Delete("/{id}", DeleteHandler)
	})

	return r
}
