package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/insurebrain/policy-engine/internal/api"
	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/database"
	"github.com/insurebrain/policy-engine/internal/logger"
	"github.com/insurebrain/policy-engine/internal/middleware"
	"github.com/insurebrain/policy-engine/internal/repository"
	"github.com/insurebrain/policy-engine/internal/services"
	"github.com/insurebrain/policy-engine/pkg/config"
)

func main() {
	// No .env file is fine in deployed environments
	_ = godotenv.Load()

	cfg := config.New()

	log := logger.New()
	if cfg.IsDevelopment() {
		log = logger.NewWithLevel("debug")
	}

	// Repositories: Postgres when configured, in-memory otherwise so the
	// engine still serves consultations without a database.
	var repos *repository.Repositories
	var db *database.DB
	if cfg.HasDatabase() {
		var err error
		db, err = database.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", err)
		}
		defer db.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal("failed to run migrations", err)
		}
		repos = repository.NewRepositories(db.DB)
	} else {
		log.Warn("no database configured, session records are in-memory only")
		repos = repository.NewMemoryRepositories()
	}

	// Catalog: file-backed when configured, builtin rate cards otherwise
	store := catalog.NewStore()
	if cfg.CatalogPath != "" {
		snap, err := catalog.LoadSnapshot(cfg.CatalogPath)
		if err != nil {
			log.Fatal("failed to load catalog", err, "path", cfg.CatalogPath)
		}
		store.Publish(snap)
		log.Info("catalog loaded", "path", cfg.CatalogPath, "version", snap.Version, "policies", snap.Size())
	} else {
		snap := catalog.DefaultSnapshot()
		store.Publish(snap)
		log.Info("using builtin catalog", "version", snap.Version, "policies", snap.Size())
	}

	svcs := services.NewServices(repos, cfg, store, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.RequestSizeMiddleware(cfg))
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware())
	}
	r.Use(gin.Recovery())

	if proxies := cfg.GetTrustedProxies(); proxies != nil {
		if err := r.SetTrustedProxies(proxies); err != nil {
			log.Fatal("invalid trusted proxies", err)
		}
	}

	api.SetupRoutes(r, svcs, db, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain queued audit
	// writes before exiting.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", err)
	}
	svcs.Shutdown()
}
