package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rosterd/internal/domain/attendance"
	"rosterd/internal/domain/reports"
	"rosterd/internal/domain/schedule"
	"rosterd/internal/domain/station"
	"rosterd/internal/platform/clock"
	"rosterd/internal/platform/config"
	"rosterd/internal/platform/db"
	"rosterd/internal/platform/verify"
	"rosterd/internal/transport/http/api"
	attendancehandler "rosterd/internal/transport/http/handlers/attendance"
	reportshandler "rosterd/internal/transport/http/handlers/reports"
	schedulehandler "rosterd/internal/transport/http/handlers/schedule"
	stationhandler "rosterd/internal/transport/http/handlers/station"
	"rosterd/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	// The server process is the time authority for every terminal.
	serverClock := clock.System{}
	verifier := verify.NewClient(cfg.VerifierURL, cfg.VerifierTimeout)

	scheduleService := schedule.NewService(schedule.NewStore(pool))
	stationService := station.NewService(station.NewStore(pool), serverClock, cfg.StationTokenTTL)
	attendanceService := attendance.NewService(attendance.NewStore(pool), scheduleService, serverClock, verifier, cfg.CheckInWindowLead)
	reportsService := reports.NewService(scheduleService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		// Terminals sync against this once per session; their local clocks
		// are untrusted.
		r.Get("/time", func(w http.ResponseWriter, req *http.Request) {
			api.Success(w, map[string]time.Time{"now": serverClock.Now().UTC()}, middleware.GetRequestID(req.Context()))
		})

		scheduleHandler := schedulehandler.NewHandler(scheduleService, cfg.ScheduleListMaxDays)
		attendanceHandler := attendancehandler.NewHandler(attendanceService, stationService)
		r.Route("/schedules", func(r chi.Router) {
			scheduleHandler.RegisterRoutes(r)
			attendanceHandler.RegisterRoutes(r)
		})

		stationhandler.NewHandler(stationService).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)
	})

	log.Printf("rosterd listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
