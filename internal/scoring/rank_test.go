package scoring

import (
	"testing"

	"github.com/insurebrain/policy-engine/internal/catalog"
)

func scored(insurer, name string, score float64, installment int64) *ScoredPolicy {
	return &ScoredPolicy{
		Policy: &catalog.PolicyDefinition{
			ID:      name,
			Insurer: insurer,
			Name:    name,
		},
		Price:  priceAt(installment),
		Result: Result{Score: score},
	}
}

func TestRankByScore(t *testing.T) {
	policies := []*ScoredPolicy{
		scored("A Life", "Low", 0.60, 5000),
		scored("B Life", "High", 0.90, 5000),
		scored("C Life", "Mid", 0.75, 5000),
	}
	Rank(policies)

	want := []string{"High", "Mid", "Low"}
	for i, name := range want {
		if policies[i].Policy.Name != name {
			t.Errorf("position %d: got %s, want %s", i, policies[i].Policy.Name, name)
		}
		if policies[i].Rank != i+1 {
			t.Errorf("rank for %s: got %d, want %d", name, policies[i].Rank, i+1)
		}
	}
}

func TestRankTieBreaksOnInstallment(t *testing.T) {
	policies := []*ScoredPolicy{
		scored("A Life", "Costly", 0.82, 5000),
		scored("B Life", "Cheap", 0.82, 4800),
	}
	Rank(policies)

	if policies[0].Policy.Name != "Cheap" {
		t.Errorf("cheaper installment should rank first at equal scores, got %s",
			policies[0].Policy.Name)
	}
}

func TestRankTieBreaksOnInsurerThenName(t *testing.T) {
	policies := []*ScoredPolicy{
		scored("Zeta Life", "Plan", 0.80, 5000),
		scored("Alpha Life", "Plan Z", 0.80, 5000),
		scored("Alpha Life", "Plan A", 0.80, 5000),
	}
	Rank(policies)

	if policies[0].Policy.Insurer != "Alpha Life" || policies[0].Policy.Name != "Plan A" {
		t.Errorf("expected Alpha Life / Plan A first, got %s / %s",
			policies[0].Policy.Insurer, policies[0].Policy.Name)
	}
	if policies[1].Policy.Name != "Plan Z" {
		t.Errorf("expected Plan Z second, got %s", policies[1].Policy.Name)
	}
	if policies[2].Policy.Insurer != "Zeta Life" {
		t.Errorf("expected Zeta Life last, got %s", policies[2].Policy.Insurer)
	}
}

func TestRankDeterministic(t *testing.T) {
	build := func() []*ScoredPolicy {
		return []*ScoredPolicy{
			scored("B Life", "Two", 0.82, 4800),
			scored("A Life", "One", 0.82, 4800),
			scored("C Life", "Three", 0.90, 6000),
		}
	}

	first := build()
	Rank(first)
	for i := 0; i < 5; i++ {
		again := build()
		Rank(again)
		for j := range first {
			if first[j].Policy.ID != again[j].Policy.ID {
				t.Fatalf("run %d position %d: got %s, want %s",
					i, j, again[j].Policy.ID, first[j].Policy.ID)
			}
		}
	}
}

func TestTopN(t *testing.T) {
	policies := []*ScoredPolicy{
		scored("A", "One", 0.9, 100),
		scored("B", "Two", 0.8, 100),
		scored("C", "Three", 0.7, 100),
	}
	Rank(policies)

	top := TopN(policies, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(top))
	}
	if top[0].Policy.Name != "One" {
		t.Errorf("expected One first, got %s", top[0].Policy.Name)
	}

	all := TopN(policies, 10)
	if len(all) != 3 {
		t.Errorf("n beyond length should return all, got %d", len(all))
	}
}

func TestExplainDeterministic(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement()
	sp := scored("Test Life", "Plan A", 0, 9000)
	sp.Policy = basePolicy()
	sp.Result = engine.Score(req, sp.Policy, sp.Price)

	first := engine.Explain(req, sp)
	if first == "" {
		t.Fatal("explanation should not be empty")
	}
	for i := 0; i < 5; i++ {
		if again := engine.Explain(req, sp); again != first {
			t.Fatalf("explanation changed between runs:\n%s\n%s", first, again)
		}
	}
}

func TestExplainComparativeSingleResult(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement()
	sp := scored("Test Life", "Plan A", 0.9, 9000)

	text := engine.ExplainComparative(req, sp, nil)
	if text == "" {
		t.Fatal("comparative explanation should not be empty for a single result")
	}
}
