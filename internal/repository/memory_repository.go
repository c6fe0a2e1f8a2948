package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/insurebrain/policy-engine/internal/models"
)

// memorySessionRepository is an in-memory SessionRepository used for tests
// and database-less runs. It keeps the same append-only, idempotent
// semantics as the Postgres implementation.
type memorySessionRepository struct {
	mu      sync.RWMutex
	byHash  map[string]*Session
	ordered []*Session
}

// NewMemorySessionRepository creates an in-memory session repository
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		byHash: make(map[string]*Session),
	}
}

func (r *memorySessionRepository) Append(session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byHash[session.SessionHash]; exists {
		return nil
	}
	stored := *session
	r.byHash[stored.SessionHash] = &stored
	r.ordered = append(r.ordered, &stored)
	return nil
}

func (r *memorySessionRepository) GetByHash(hash string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("session %s not found", hash)
	}
	copied := *session
	return &copied, nil
}

func (r *memorySessionRepository) ListByAgent(agent string) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sessions []Session
	for _, s := range r.ordered {
		if s.Agent == agent {
			sessions = append(sessions, *s)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (r *memorySessionRepository) Stats(agent string) (*SessionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var totalSessions, totalRecommendations int
	var totalMS int64
	for _, s := range r.ordered {
		if s.Agent != agent {
			continue
		}
		totalSessions++
		totalRecommendations += len(s.Recommendations)
		totalMS += s.DurationMS
	}

	var avgMS int64
	if totalSessions > 0 {
		avgMS = totalMS / int64(totalSessions)
	}
	return &SessionStats{
		TotalSessions:        totalSessions,
		TotalRecommendations: totalRecommendations,
		AvgSessionTime:       FormatAvgDuration(avgMS),
	}, nil
}

// memoryUserRepository is an in-memory UserRepository
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
}

// NewMemoryUserRepository creates an in-memory user repository
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s not found", email)
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *memoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("user with email %s already exists", user.Email)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}
