package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insurebrain/policy-engine/internal/auth"
	"github.com/insurebrain/policy-engine/internal/services"
)

// recommendTimeout bounds one full consultation pipeline run
const recommendTimeout = 10 * time.Second

// RecommendationHandler handles consultation requests
type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

// NewRecommendationHandler creates a new recommendation handler with service injection
func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// GetRecommendations runs the consultation pipeline for the query parameters
// and returns ranked recommendations. An empty result set is a 200: finding
// nothing eligible is an answer, not a failure.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), recommendTimeout)
	defer cancel()

	response, err := h.recommendationService.Recommend(ctx, c.Request.URL.Query(), auth.AgentEmail(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
