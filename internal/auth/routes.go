package auth

import (
	"net/http"

	"github.com/attendly/presence-backend/internal/config"
	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes(cfg config.Config) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(cfg)

	r.Post("/login", h.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWTSecret))
		r.Get("/me", h.MeHandler)
	})

	return r
}
