package services

import (
	"github.com/insurebrain/policy-engine/internal/repository"
)

// sessionServiceImpl implements SessionService
type sessionServiceImpl struct {
	repos *repository.Repositories
}

// newSessionService creates a new session service implementation
func newSessionService(repos *repository.Repositories) SessionService {
	return &sessionServiceImpl{repos: repos}
}

// ListByAgent returns the agent's session history, newest first
func (s *sessionServiceImpl) ListByAgent(agent string) ([]repository.Session, error) {
	return s.repos.Session.ListByAgent(agent)
}

// GetByHash retrieves one session record by its content hash
func (s *sessionServiceImpl) GetByHash(hash string) (*repository.Session, error) {
	return s.repos.Session.GetByHash(hash)
}

// Stats returns the agent's aggregate session counters
func (s *sessionServiceImpl) Stats(agent string) (*repository.SessionStats, error) {
	return s.repos.Session.Stats(agent)
}
