package services

import (
	"context"
	"net/url"

	"github.com/insurebrain/policy-engine/internal/audit"
	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/logger"
	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/repository"
	"github.com/insurebrain/policy-engine/pkg/config"
)

// Services contains all application services
type Services struct {
	Recommendation RecommendationService
	Session        SessionService
	Catalog        CatalogService
	Auth           AuthService

	recorder *audit.Recorder
}

// RecommendationService runs the consultation pipeline: normalize the raw
// requirement, filter, price, score, rank, and explain.
type RecommendationService interface {
	Recommend(ctx context.Context, params url.Values, agent string) (*RecommendationResponse, error)
}

// SessionService exposes the agent's audit trail
type SessionService interface {
	ListByAgent(agent string) ([]repository.Session, error)
	GetByHash(hash string) (*repository.Session, error)
	Stats(agent string) (*repository.SessionStats, error)
}

// CatalogService manages the published rate card snapshot
type CatalogService interface {
	Current() (*catalog.Snapshot, error)
	// Reload re-reads the configured catalog file and atomically publishes
	// it. In-flight requests keep the snapshot they started with.
	Reload() (*catalog.Snapshot, error)
}

// AuthService defines the interface for advisor authentication
type AuthService interface {
	Login(email, password string) (*repository.LoginResponse, error)
	Register(req *repository.RegisterRequest) (*models.User, error)
	ValidateToken(token string) (*models.User, error)
	RefreshToken(token string) (*repository.LoginResponse, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(repos *repository.Repositories, cfg *config.Config, store *catalog.Store, log logger.Logger) *Services {
	recorder := audit.NewRecorder(repos.Session, log, cfg.AuditRetryMax)

	return &Services{
		Recommendation: newRecommendationService(cfg, store, recorder, log),
		Session:        newSessionService(repos),
		Catalog:        newCatalogService(cfg, store, log),
		Auth:           newAuthService(repos, cfg),
		recorder:       recorder,
	}
}

// Shutdown waits for queued audit writes to drain
func (s *Services) Shutdown() {
	s.recorder.Wait()
}
