package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// sessionRepository implements SessionRepository on Postgres
type sessionRepository struct {
	db dbExecutor
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db dbExecutor) SessionRepository {
	return &sessionRepository{db: db}
}

// Append persists a session record in a single statement, so the write is
// all-or-nothing. Re-appending an existing hash is a no-op: the hash is
// content-derived, so an identical hash means identical content.
func (r *sessionRepository) Append(session *Session) error {
	clientData, err := json.Marshal(session.ClientData)
	if err != nil {
		return fmt.Errorf("failed to marshal client data: %w", err)
	}
	recommendations, err := json.Marshal(session.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO sessions (id, session_hash, agent, status, catalog_version, client_data, recommendations, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_hash) DO NOTHING
	`
	_, err = r.db.Exec(query,
		session.ID, session.SessionHash, session.Agent, session.Status,
		session.CatalogVersion, clientData, recommendations,
		session.DurationMS, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append session: %w", err)
	}
	return nil
}

// GetByHash retrieves a session record by its content hash
func (r *sessionRepository) GetByHash(hash string) (*Session, error) {
	query := `
		SELECT id, session_hash, agent, status, catalog_version, client_data, recommendations, duration_ms, created_at
		FROM sessions WHERE session_hash = $1
	`
	session, err := scanSession(r.db.QueryRow(query, hash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", hash)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListByAgent returns the agent's sessions, newest first
func (r *sessionRepository) ListByAgent(agent string) ([]Session, error) {
	query := `
		SELECT id, session_hash, agent, status, catalog_version, client_data, recommendations, duration_ms, created_at
		FROM sessions WHERE agent = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, agent)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// Stats aggregates the agent's session counters
func (r *sessionRepository) Stats(agent string) (*SessionStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(jsonb_array_length(recommendations)), 0),
		       COALESCE(AVG(duration_ms), 0)
		FROM sessions WHERE agent = $1
	`
	var totalSessions, totalRecommendations int
	var avgMS float64
	if err := r.db.QueryRow(query, agent).Scan(&totalSessions, &totalRecommendations, &avgMS); err != nil {
		return nil, fmt.Errorf("failed to aggregate session stats: %w", err)
	}
	return &SessionStats{
		TotalSessions:        totalSessions,
		TotalRecommendations: totalRecommendations,
		AvgSessionTime:       FormatAvgDuration(int64(avgMS)),
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var clientData, recommendations []byte

	err := row.Scan(
		&session.ID, &session.SessionHash, &session.Agent, &session.Status,
		&session.CatalogVersion, &clientData, &recommendations,
		&session.DurationMS, &session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(clientData, &session.ClientData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client data: %w", err)
	}
	if err := json.Unmarshal(recommendations, &session.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	return &session, nil
}

// FormatAvgDuration renders an average duration in the short form the
// dashboard expects ("45s", "5m", "1h 12m")
func FormatAvgDuration(ms int64) string {
	if ms <= 0 {
		return "--"
	}
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
