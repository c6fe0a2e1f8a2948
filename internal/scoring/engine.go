package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/pricing"
)

// Weights is the fixed per-insurance-type weighting of the sub-scores. The
// weights must sum to 1.0 so the composite stays in [0,1].
type Weights struct {
	BudgetFit           float64 `json:"budget_fit"`
	CoverageFit         float64 `json:"coverage_fit"`
	RiderCoverage       float64 `json:"rider_coverage"`
	PreferenceAlignment float64 `json:"preference_alignment"`
	RiskAlignment       float64 `json:"risk_alignment"`
}

// DefaultWeights returns the weighting configuration for an insurance type.
// Only life is tuned today; other product lines fall back to the life weights.
func DefaultWeights(insuranceType string) Weights {
	switch insuranceType {
	default:
		return Weights{
			BudgetFit:           0.30,
			CoverageFit:         0.25,
			RiderCoverage:       0.20,
			PreferenceAlignment: 0.15,
			RiskAlignment:       0.10,
		}
	}
}

// ComponentScores are the independently normalized sub-scores, each in [0,1]
type ComponentScores struct {
	BudgetFit           float64 `json:"budget_fit"`
	CoverageFit         float64 `json:"coverage_fit"`
	RiderCoverage       float64 `json:"rider_coverage"`
	PreferenceAlignment float64 `json:"preference_alignment"`
	RiskAlignment       float64 `json:"risk_alignment"`
}

// Result is the composite match result for one priced policy
type Result struct {
	Score           float64         `json:"score"`
	MatchPercentage int             `json:"match_percentage"`
	Components      ComponentScores `json:"components"`
}

// ScoredPolicy pairs a catalog policy with its price and match result for one
// pipeline invocation.
type ScoredPolicy struct {
	Policy      *catalog.PolicyDefinition
	Price       *pricing.Price
	Result      Result
	Rank        int
	Explanation string
}

// Engine computes weighted composite match scores
type Engine struct {
	weights Weights
}

// NewEngine creates a scoring engine with the given weights
func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Weights returns the engine's weighting configuration
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score computes the composite match score for an eligible, priced policy.
// Policies over budget are penalized, not excluded: affordability guidance is
// advisory, eligibility already handled the hard constraints.
func (e *Engine) Score(req *models.ClientRequirement, policy *catalog.PolicyDefinition, price *pricing.Price) Result {
	c := ComponentScores{
		BudgetFit:           budgetFit(req.Budget, price.Breakdown.TotalInstallmentYear1),
		CoverageFit:         coverageFit(req, policy),
		RiderCoverage:       riderCoverage(req.NeedRiders, policy),
		PreferenceAlignment: preferenceAlignment(req, policy),
		RiskAlignment:       riskAlignment(req.RiskProfile, policy.RiskClass),
	}

	score := c.BudgetFit*e.weights.BudgetFit +
		c.CoverageFit*e.weights.CoverageFit +
		c.RiderCoverage*e.weights.RiderCoverage +
		c.PreferenceAlignment*e.weights.PreferenceAlignment +
		c.RiskAlignment*e.weights.RiskAlignment
	score = clamp01(score)

	return Result{
		Score:           score,
		MatchPercentage: int(math.Round(score * 100)),
		Components:      c,
	}
}

// budgetFit measures how close the first-year installment is to the stated
// budget. Overage is penalized at twice the rate of underage.
func budgetFit(budget, installment decimal.Decimal) float64 {
	if budget.LessThanOrEqual(decimal.Zero) {
		return 1.0
	}
	b, _ := budget.Float64()
	p, _ := installment.Float64()
	diff := (p - b) / b
	if diff > 0 {
		return clamp01(1.0 - 2.0*diff)
	}
	return clamp01(1.0 + diff)
}

// coverageFit is the ratio of the achievable sum assured to the
// income-multiplier target
func coverageFit(req *models.ClientRequirement, policy *catalog.PolicyDefinition) float64 {
	target := req.CoverageTarget()
	if target.LessThanOrEqual(decimal.Zero) {
		return 1.0
	}
	achievable := req.BasicSumAssured
	if achievable.GreaterThan(policy.MaxSumAssured) {
		achievable = policy.MaxSumAssured
	}
	ratio, _ := achievable.Div(target).Float64()
	return clamp01(ratio)
}

// riderCoverage is the fraction of requested riders the policy offers
func riderCoverage(requested []string, policy *catalog.PolicyDefinition) float64 {
	if len(requested) == 0 {
		return 1.0
	}
	supported := 0
	for _, code := range requested {
		if _, ok := policy.Rider(code); ok {
			supported++
		}
	}
	return float64(supported) / float64(len(requested))
}

// preferenceAlignment is the categorical match of liquidity and payout
// preferences against the policy's feature tags, half credit each
func preferenceAlignment(req *models.ClientRequirement, policy *catalog.PolicyDefinition) float64 {
	score := 0.0
	if req.LiquidityPreference == policy.Liquidity {
		score += 0.5
	}
	if req.PayoutPreference == policy.Payout {
		score += 0.5
	}
	return score
}

var riskOrder = map[models.RiskProfile]int{
	models.RiskConservative: 0,
	models.RiskModerate:     1,
	models.RiskGrowth:       2,
}

// riskAlignment scores the distance between the client's risk profile and the
// policy's risk class on the ordered conservative/moderate/growth scale
func riskAlignment(profile models.RiskProfile, class models.RiskProfile) float64 {
	a, okA := riskOrder[profile]
	b, okB := riskOrder[class]
	if !okA || !okB {
		return 0.0
	}
	switch abs(a - b) {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0.0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
