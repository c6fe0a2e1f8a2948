package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/insurebrain/policy-engine/internal/models"
)

// SessionRepository defines append-only access to consultation session
// records. Records are immutable: there is no update or delete.
type SessionRepository interface {
	// Append persists a session record all-or-nothing. Appending a hash
	// that already exists with identical content is a no-op, not an error:
	// identical canonical inputs legitimately collide.
	Append(session *Session) error
	GetByHash(hash string) (*Session, error)
	// ListByAgent returns the agent's sessions ordered newest first.
	ListByAgent(agent string) ([]Session, error)
	Stats(agent string) (*SessionStats, error)
}

// UserRepository defines access to advisor accounts. Accounts are created
// at registration and read for login and token checks; there is no account
// management surface, so no update or delete.
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Session SessionRepository
	User    UserRepository
}

// NewRepositories creates a Postgres-backed repository collection
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Session: NewSessionRepository(db),
		User:    NewUserRepository(db),
	}
}

// NewMemoryRepositories creates an in-memory repository collection for tests
// and database-less runs
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Session: NewMemorySessionRepository(),
		User:    NewMemoryUserRepository(),
	}
}

// dbExecutor is an interface that both *sql.DB and *sql.Tx implement
type dbExecutor interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}
