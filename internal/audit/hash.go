package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/scoring"
)

// SessionHashLength is the number of hex characters kept from the digest.
// 16 characters (64 bits) keeps links short while collisions stay
// vanishingly unlikely at this write volume.
const SessionHashLength = 16

// canonicalPayload is the exact content that identifies a consultation.
// Field order is fixed and the capture timestamp is deliberately absent:
// re-running the same requirement against the same catalog must produce the
// same hash.
type canonicalPayload struct {
	Requirement    *models.ClientRequirement `json:"requirement"`
	CatalogVersion string                    `json:"catalog_version"`
	Results        []canonicalResult         `json:"results"`
}

// canonicalResult is the rank-ordered summary of one recommendation
type canonicalResult struct {
	PolicyID         string `json:"policy_id"`
	Rank             int    `json:"rank"`
	Score            string `json:"score"`
	InstallmentYear1 string `json:"installment_year1"`
}

// SessionHash computes the content hash identifying a consultation session.
// The hash covers the normalized requirement, the catalog version, and the
// ranked results. Scores and amounts are rendered as fixed strings so the
// digest does not depend on float formatting.
func SessionHash(req *models.ClientRequirement, catalogVersion string, ranked []*scoring.ScoredPolicy) (string, error) {
	payload := canonicalPayload{
		Requirement:    req,
		CatalogVersion: catalogVersion,
		Results:        make([]canonicalResult, 0, len(ranked)),
	}
	for _, sp := range ranked {
		payload.Results = append(payload.Results, canonicalResult{
			PolicyID:         sp.Policy.ID,
			Rank:             sp.Rank,
			Score:            fmt.Sprintf("%.6f", sp.Result.Score),
			InstallmentYear1: sp.Price.Breakdown.TotalInstallmentYear1.StringFixed(4),
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal canonical payload: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:SessionHashLength], nil
}
