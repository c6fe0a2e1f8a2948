package scoring

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/pricing"
)

func basePolicy() *catalog.PolicyDefinition {
	return &catalog.PolicyDefinition{
		ID:            "plan-a",
		Insurer:       "Test Life",
		Name:          "Plan A",
		MaxSumAssured: decimal.NewFromInt(10000000),
		Riders: []catalog.RiderDefinition{
			{Code: "ADB", Name: "Accidental Death Benefit"},
			{Code: "TPD", Name: "Total Permanent Disability"},
		},
		Liquidity: models.LiquidityMedium,
		Payout:    models.PayoutLumpSum,
		RiskClass: models.RiskModerate,
	}
}

func baseRequirement() *models.ClientRequirement {
	return &models.ClientRequirement{
		Age:                 30,
		Gender:              models.GenderMale,
		BasicSumAssured:     decimal.NewFromInt(500000),
		Budget:              decimal.NewFromInt(10000),
		LiquidityPreference: models.LiquidityMedium,
		PayoutPreference:    models.PayoutLumpSum,
		RiskProfile:         models.RiskModerate,
		InsuranceType:       "life",
	}
}

func priceAt(installment int64) *pricing.Price {
	d := decimal.NewFromInt(installment)
	return &pricing.Price{
		TotalPremiumToPay: d,
		Breakdown:         pricing.Breakdown{TotalInstallmentYear1: d},
	}
}

func TestScorePerfectMatch(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	result := engine.Score(baseRequirement(), basePolicy(), priceAt(10000))

	if math.Abs(result.Score-1.0) > 1e-9 {
		t.Errorf("perfect alignment should score 1.0, got %f", result.Score)
	}
	if result.MatchPercentage != 100 {
		t.Errorf("expected 100%% match, got %d", result.MatchPercentage)
	}
}

func TestScoreRange(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement()
	req.LiquidityPreference = models.LiquidityHigh
	req.RiskProfile = models.RiskGrowth
	req.NeedRiders = []string{"ADB", "Waiver"}

	result := engine.Score(req, basePolicy(), priceAt(25000))
	if result.Score < 0 || result.Score > 1 {
		t.Errorf("score out of range: %f", result.Score)
	}
	if result.MatchPercentage != int(math.Round(result.Score*100)) {
		t.Errorf("match percentage %d disagrees with score %f",
			result.MatchPercentage, result.Score)
	}
}

func TestBudgetOverageHarsherThanUnderage(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement() // budget 10000

	over := engine.Score(req, basePolicy(), priceAt(12000))  // 20% over
	under := engine.Score(req, basePolicy(), priceAt(8000)) // 20% under

	if over.Components.BudgetFit >= under.Components.BudgetFit {
		t.Errorf("going over budget (%f) should score below going under (%f)",
			over.Components.BudgetFit, under.Components.BudgetFit)
	}
	if got := over.Components.BudgetFit; math.Abs(got-0.6) > 1e-9 {
		t.Errorf("20%% overage should score 0.6, got %f", got)
	}
	if got := under.Components.BudgetFit; math.Abs(got-0.8) > 1e-9 {
		t.Errorf("20%% underage should score 0.8, got %f", got)
	}
}

func TestNoBudgetMeansNeutralBudgetFit(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement()
	req.Budget = decimal.Zero

	result := engine.Score(req, basePolicy(), priceAt(999999))
	if result.Components.BudgetFit != 1.0 {
		t.Errorf("no stated budget should not penalize, got %f", result.Components.BudgetFit)
	}
}

func TestRiderCoverageFraction(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement()
	req.NeedRiders = []string{"ADB", "TPD", "Waiver", "Critical Illness"}

	result := engine.Score(req, basePolicy(), priceAt(10000))
	if got := result.Components.RiderCoverage; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("2 of 4 riders supported should score 0.5, got %f", got)
	}
}

func TestRiskAlignmentDistance(t *testing.T) {
	cases := []struct {
		profile models.RiskProfile
		class   models.RiskProfile
		want    float64
	}{
		{models.RiskModerate, models.RiskModerate, 1.0},
		{models.RiskConservative, models.RiskModerate, 0.5},
		{models.RiskConservative, models.RiskGrowth, 0.0},
		{models.RiskGrowth, models.RiskModerate, 0.5},
	}
	for _, c := range cases {
		if got := riskAlignment(c.profile, c.class); got != c.want {
			t.Errorf("riskAlignment(%s, %s) = %f, want %f", c.profile, c.class, got, c.want)
		}
	}
}

func TestCoverageFitCapped(t *testing.T) {
	engine := NewEngine(DefaultWeights("life"))
	req := baseRequirement()
	req.AnnualIncome = decimal.NewFromInt(100000)
	req.CoverMultiplier = 10 // target 1000000
	req.BasicSumAssured = decimal.NewFromInt(5000000)

	result := engine.Score(req, basePolicy(), priceAt(10000))
	if result.Components.CoverageFit != 1.0 {
		t.Errorf("coverage beyond the target should cap at 1.0, got %f",
			result.Components.CoverageFit)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	w := DefaultWeights("life")
	sum := w.BudgetFit + w.CoverageFit + w.RiderCoverage + w.PreferenceAlignment + w.RiskAlignment
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("weights must sum to 1.0, got %f", sum)
	}
}
