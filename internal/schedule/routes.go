package schedule

import (
	"net/http"

	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(jwtSecret))
		r.Post("/", ReplaceAllHandler)
	})

	return r
}
