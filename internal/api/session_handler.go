package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insurebrain/policy-engine/internal/auth"
	"github.com/insurebrain/policy-engine/internal/repository"
	"github.com/insurebrain/policy-engine/internal/services"
)

// SessionHandler serves the advisor's consultation history
type SessionHandler struct {
	sessionService services.SessionService
}

// NewSessionHandler creates a new session handler with service injection
func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// ListSessions returns the authenticated advisor's sessions, newest first
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionService.ListByAgent(auth.AgentEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions: " + err.Error()})
		return
	}
	if sessions == nil {
		sessions = []repository.Session{}
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":  sessions,
		"timestamp": time.Now(),
	})
}

// GetSession returns one session record by its content hash. Hashes are not
// secret but records are scoped to the advisor who ran the consultation.
func (h *SessionHandler) GetSession(c *gin.Context) {
	hash := c.Param("hash")

	session, err := h.sessionService.GetByHash(hash)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if session.Agent != auth.AgentEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Session belongs to another advisor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":   session,
		"timestamp": time.Now(),
	})
}

// GetStats returns the advisor's aggregate session counters
func (h *SessionHandler) GetStats(c *gin.Context) {
	stats, err := h.sessionService.Stats(auth.AgentEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate stats: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
