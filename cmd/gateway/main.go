package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-blueprint/internal/api/http"
	auth "github.com/mind-engage/mindengage-blueprint/internal/auth/middleware"
	"github.com/mind-engage/mindengage-blueprint/internal/config"
	"github.com/mind-engage/mindengage-blueprint/internal/db"
	"github.com/mind-engage/mindengage-blueprint/internal/exam"
	"github.com/mind-engage/mindengage-blueprint/internal/metrics"
	"github.com/mind-engage/mindengage-blueprint/internal/rbac"
	"github.com/mind-engage/mindengage-blueprint/internal/storage"
	syncx "github.com/mind-engage/mindengage-blueprint/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	var sheets storage.SheetStore
	if cfg.SheetsDir != "-" {
		fs, err := storage.NewFSStore(cfg.SheetsDir)
		if err != nil {
			log.Fatalf("sheet store: %v", err)
		}
		sheets = fs
	}

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL)
	m := metrics.New()

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, auth.Account{
		Username: cfg.AdminUser,
		PassHash: cfg.AdminPassHash,
		Role:     "admin",
	}))

	api.Mount(r, api.Deps{
		Store:      exam.NewSQLStore(dbh, cfg.DBDriver),
		Events:     syncx.NewEventRepo(dbh),
		Sheets:     sheets,
		Metrics:    m,
		Auth:       authSvc,
		RBAC:       rbac.NewChecker(nil),
		AllowForce: cfg.AllowForceSave,
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			log.Printf("readyz: %v", err)
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", m.Handler())

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
