package scoring

import (
	"sort"
)

// Rank orders scored policies into a fully deterministic sequence and assigns
// ranks starting at 1. Order: score descending, then lower first-year
// installment, then insurer name, then product name. Identical inputs against
// an identical catalog version always produce the identical order.
func Rank(policies []*ScoredPolicy) {
	sort.SliceStable(policies, func(i, j int) bool {
		a, b := policies[i], policies[j]
		if a.Result.Score != b.Result.Score {
			return a.Result.Score > b.Result.Score
		}
		if cmp := a.Price.Breakdown.TotalInstallmentYear1.Cmp(b.Price.Breakdown.TotalInstallmentYear1); cmp != 0 {
			return cmp < 0
		}
		if a.Policy.Insurer != b.Policy.Insurer {
			return a.Policy.Insurer < b.Policy.Insurer
		}
		return a.Policy.Name < b.Policy.Name
	})
	for i, p := range policies {
		p.Rank = i + 1
	}
}

// TopN returns the first n ranked policies without reordering. The caller
// still reports the full eligible-set size separately.
func TopN(policies []*ScoredPolicy, n int) []*ScoredPolicy {
	if n <= 0 || n >= len(policies) {
		return policies
	}
	return policies[:n]
}
