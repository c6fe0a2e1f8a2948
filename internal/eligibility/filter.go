// Package eligibility removes catalog policies that cannot satisfy a
// requirement's hard constraints. Everything soft (budget, preferences) is
// left to the scorer.
package eligibility

import (
	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/models"
)

// Eligible reports whether a policy can satisfy every hard constraint of the
// requirement: supported terms, sum assured bounds, issue age band, loan
// facility when demanded, and every requested rider.
func Eligible(req *models.ClientRequirement, policy *catalog.PolicyDefinition) bool {
	if !policy.SupportsTerm(req.PolicyTerm) {
		return false
	}
	if !policy.SupportsPaymentTerm(req.PremiumPayingTerm) {
		return false
	}
	if req.BasicSumAssured.LessThan(policy.MinSumAssured) ||
		req.BasicSumAssured.GreaterThan(policy.MaxSumAssured) {
		return false
	}
	if req.Age < policy.MinIssueAge || req.Age > policy.MaxIssueAge {
		return false
	}
	if req.NeedLoanFeature && !policy.Loan.Allowed {
		return false
	}
	for _, code := range req.NeedRiders {
		if _, ok := policy.Rider(code); !ok {
			return false
		}
	}
	return true
}

// Filter returns the eligible subset of a catalog snapshot. An empty result
// is a legitimate no-match outcome, not an error.
func Filter(req *models.ClientRequirement, snap *catalog.Snapshot) []*catalog.PolicyDefinition {
	eligible := make([]*catalog.PolicyDefinition, 0, len(snap.Policies))
	for i := range snap.Policies {
		if Eligible(req, &snap.Policies[i]) {
			eligible = append(eligible, &snap.Policies[i])
		}
	}
	return eligible
}
