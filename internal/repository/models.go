package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/models"
)

// Session statuses. A record is completed when its audit write succeeded
// first try; unaudited marks one that only landed on a retry, after the
// consultation response had already gone out.
const (
	SessionStatusCompleted = "completed"
	SessionStatusUnaudited = "unaudited"
)

// Session is one immutable consultation record. JSON field names match what
// the session-history screen reads.
type Session struct {
	ID              uuid.UUID                `json:"_id"`
	SessionHash     string                   `json:"sessionHash"`
	Agent           string                   `json:"agent"`
	Status          string                   `json:"status"`
	CatalogVersion  string                   `json:"catalogVersion"`
	ClientData      models.ClientRequirement `json:"clientData"`
	Recommendations []Recommendation         `json:"recommendations"`
	DurationMS      int64                    `json:"durationMs"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// Recommendation is the per-policy summary embedded in a session record
type Recommendation struct {
	PolicyID        string                `json:"policyId"`
	PolicyName      string                `json:"policyName"`
	Insurer         string                `json:"insurer"`
	Score           float64               `json:"score"`
	MatchPercentage int                   `json:"matchPercentage"`
	Pricing         RecommendationPricing `json:"pricing"`
}

// RecommendationPricing carries the figures the history view renders
type RecommendationPricing struct {
	InstallmentYear1 decimal.Decimal `json:"installmentYear1"`
}

// SessionStats are the aggregate counters behind the dashboard tiles
type SessionStats struct {
	TotalSessions        int    `json:"totalSessions"`
	TotalRecommendations int    `json:"totalRecommendations"`
	AvgSessionTime       string `json:"avgSessionTime"`
}

// LoginResponse represents the response from login
type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// RegisterRequest represents the request to register a new agent account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"`
}
