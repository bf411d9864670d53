package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/attendly/presence-backend/internal/auth"
	"github.com/attendly/presence-backend/internal/config"
	"github.com/attendly/presence-backend/internal/db"
	"github.com/attendly/presence-backend/internal/events"
	"github.com/attendly/presence-backend/internal/geofence"
	"github.com/attendly/presence-backend/internal/live"
	"github.com/attendly/presence-backend/internal/metrics"
	"github.com/attendly/presence-backend/internal/middleware"
	"github.com/attendly/presence-backend/internal/presence"
	"github.com/attendly/presence-backend/internal/schedule"
	"github.com/attendly/presence-backend/internal/students"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Attendance backend is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	db.Connect(cfg.DatabaseURL)

	// Order matters: events adds foreign keys onto the other tables.
	students.Init()
	geofence.Init()
	schedule.Init()
	events.Init()
	auth.Init(cfg)

	engine := presence.NewEngine(presence.NewStore(db.DB))

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/stream/live", live.StreamHandler)

	r.Mount("/auth", auth.SetupRoutes(cfg))
	r.Mount("/presence", presence.SetupRoutes(engine, cfg))
	r.Mount("/geofence", geofence.SetupRoutes(cfg.JWTSecret))
	r.Mount("/time-windows", schedule.SetupRoutes(cfg.JWTSecret))
	r.Mount("/students", students.SetupRoutes(cfg.JWTSecret))
	r.Mount("/events", events.SetupRoutes(cfg.JWTSecret))

	// Kept alias for dashboards that predate the /events prefix.
	r.With(middleware.AdminAuth(cfg.JWTSecret)).Get("/stats/daily", events.DailyStatsHandler)

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
