package events

import (
	"net/http"

	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(jwtSecret))
		// Fixed path before the parameterized one.
		r.Get("/stats/daily", DailyStatsHandler)
		r.Get("/", ListHandler)
		r.Get("/{id}", GetHandler)
	})

	return r
}
