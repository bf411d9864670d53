package presence

import (
	"net/http"

	"github.com/attendly/presence-backend/internal/config"
	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the field-ingestion path. The HMAC guard runs first so
// unauthenticated requests never touch the database; the per-device rate
// limiter keys on the guard-verified device id.
func SetupRoutes(engine *Engine, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	h := NewHandler(engine)

	guard := middleware.HMACGuard(middleware.HMACConfig{
		APIKey:        cfg.APIKey,
		SigningSecret: cfg.SigningSecret,
		AllowedSkew:   cfg.AllowedSkew,
	})
	limiter := middleware.NewDeviceRateLimiter(5, 10)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Use(limiter.Middleware)
		r.Post("/check", h.CheckHandler)
	})

	return r
}
