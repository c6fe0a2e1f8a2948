package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/insurebrain/policy-engine/internal/auth"
	"github.com/insurebrain/policy-engine/internal/database"
	"github.com/insurebrain/policy-engine/internal/services"
	"github.com/insurebrain/policy-engine/pkg/config"
)

// SetupRoutes configures all API routes. db is nil on database-less runs;
// the health endpoint reports that rather than treating it as a failure.
func SetupRoutes(r *gin.Engine, svcs *services.Services, db *database.DB, cfg *config.Config) {
	authHandler := NewAuthHandler(svcs.Auth)
	recommendationHandler := NewRecommendationHandler(svcs.Recommendation)
	sessionHandler := NewSessionHandler(svcs.Session)
	catalogHandler := NewCatalogHandler(svcs.Catalog)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/refresh", authHandler.RefreshToken)

		public.GET("/health", func(c *gin.Context) {
			status := gin.H{"status": "ok"}
			if snap, err := svcs.Catalog.Current(); err == nil {
				status["catalog_version"] = snap.Version
			} else {
				status["status"] = "degraded"
				status["catalog"] = "unavailable"
			}
			switch {
			case db == nil:
				status["database"] = gin.H{"status": "not_configured"}
			case db.HealthCheck() != nil:
				status["status"] = "degraded"
				status["database"] = gin.H{"status": "unavailable"}
			default:
				pool := db.GetStats()
				status["database"] = gin.H{
					"status":           "ok",
					"open_connections": pool.OpenConnections,
					"in_use":           pool.InUse,
					"idle":             pool.Idle,
				}
			}
			c.JSON(http.StatusOK, status)
		})
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	{
		// Consultation endpoints. The /life alias is what the intake form
		// calls; both run the identical pipeline.
		protected.GET("/recommendations", recommendationHandler.GetRecommendations)
		protected.GET("/life/recommendations", recommendationHandler.GetRecommendations)

		// Session history endpoints
		protected.GET("/sessions", sessionHandler.ListSessions)
		protected.GET("/sessions/:hash", sessionHandler.GetSession)
		protected.GET("/stats", sessionHandler.GetStats)

		// Catalog endpoints
		protected.GET("/catalog", catalogHandler.GetCatalog)
		protected.POST("/catalog/reload", auth.RequireAdmin(), catalogHandler.ReloadCatalog)
	}
}
