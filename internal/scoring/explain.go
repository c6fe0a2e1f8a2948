package scoring

import (
	"fmt"

	"github.com/insurebrain/policy-engine/internal/models"
)

// Explanation text is assembled from fixed templates keyed by the dominant
// weighted sub-score, so identical score components always produce identical
// text. Component order below is the tie-break order.

type componentKind int

const (
	compBudget componentKind = iota
	compCoverage
	compRiders
	compAlignment
	compRisk
)

var componentLabels = [...]string{
	compBudget:    "budget fit",
	compCoverage:  "coverage fit",
	compRiders:    "rider coverage",
	compAlignment: "preference alignment",
	compRisk:      "risk alignment",
}

// contributions returns each sub-score weighted by the engine configuration,
// indexed by componentKind
func (e *Engine) contributions(c ComponentScores) [5]float64 {
	return [5]float64{
		compBudget:    c.BudgetFit * e.weights.BudgetFit,
		compCoverage:  c.CoverageFit * e.weights.CoverageFit,
		compRiders:    c.RiderCoverage * e.weights.RiderCoverage,
		compAlignment: c.PreferenceAlignment * e.weights.PreferenceAlignment,
		compRisk:      c.RiskAlignment * e.weights.RiskAlignment,
	}
}

// dominantPair returns the two largest contributions; ties resolve to the
// earlier component in the fixed order.
func dominantPair(contribs [5]float64) (first, second componentKind) {
	first, second = compBudget, compCoverage
	if contribs[second] > contribs[first] {
		first, second = second, first
	}
	for k := componentKind(2); k < 5; k++ {
		if contribs[k] > contribs[first] {
			second = first
			first = k
		} else if contribs[k] > contribs[second] {
			second = k
		}
	}
	return first, second
}

func (e *Engine) clause(kind componentKind, req *models.ClientRequirement, sp *ScoredPolicy) string {
	switch kind {
	case compBudget:
		return fmt.Sprintf("keeps the first-year premium at ₹%s, the closest fit to your stated budget",
			sp.Price.Breakdown.TotalInstallmentYear1.StringFixed(2))
	case compCoverage:
		target := req.CoverageTarget()
		if target.IsZero() {
			return "covers your requested sum assured in full"
		}
		return fmt.Sprintf("delivers cover nearest your income-based target of ₹%s", target.StringFixed(0))
	case compRiders:
		if len(req.NeedRiders) == 1 {
			return fmt.Sprintf("includes the %s rider you asked for", req.NeedRiders[0])
		}
		return fmt.Sprintf("supports all %d riders you asked for", len(req.NeedRiders))
	case compAlignment:
		return "matches your liquidity and payout preferences"
	default:
		return fmt.Sprintf("suits your %s risk profile", req.RiskProfile)
	}
}

// Explain produces the per-policy rationale from the dominant contributing
// sub-scores. The secondary clause is added only when it carries at least 80%
// of the dominant contribution.
func (e *Engine) Explain(req *models.ClientRequirement, sp *ScoredPolicy) string {
	contribs := e.contributions(sp.Result.Components)
	first, second := dominantPair(contribs)

	text := fmt.Sprintf("%s by %s %s.", sp.Policy.Name, sp.Policy.Insurer, e.clause(first, req, sp))
	if contribs[first] > 0 && contribs[second] >= 0.8*contribs[first] {
		text += fmt.Sprintf(" It also %s.", e.clause(second, req, sp))
	}
	return text
}

// ExplainComparative summarizes the top result against the runner-up on the
// single largest differentiating weighted sub-score.
func (e *Engine) ExplainComparative(req *models.ClientRequirement, top, runner *ScoredPolicy) string {
	if runner == nil {
		return fmt.Sprintf("%s by %s was the only policy to satisfy every hard constraint.",
			top.Policy.Name, top.Policy.Insurer)
	}

	topContribs := e.contributions(top.Result.Components)
	runnerContribs := e.contributions(runner.Result.Components)

	factor := compBudget
	largest := -1.0
	for k := componentKind(0); k < 5; k++ {
		diff := topContribs[k] - runnerContribs[k]
		if diff < 0 {
			diff = -diff
		}
		if diff > largest {
			largest = diff
			factor = k
		}
	}

	return fmt.Sprintf("%s by %s ranks ahead of %s by %s chiefly on %s (%d%% vs %d%% match).",
		top.Policy.Name, top.Policy.Insurer,
		runner.Policy.Name, runner.Policy.Insurer,
		componentLabels[factor],
		top.Result.MatchPercentage, runner.Result.MatchPercentage)
}
