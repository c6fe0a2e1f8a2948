package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/models"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// testPolicy is a synthetic rate card with round numbers so expected values
// can be derived by hand
func testPolicy(t *testing.T) *catalog.PolicyDefinition {
	t.Helper()
	return &catalog.PolicyDefinition{
		ID:                  "test-plan",
		Insurer:             "Test Life",
		Name:                "Test Plan",
		RatecardVersion:     "v1",
		MinIssueAge:         18,
		MaxIssueAge:         65,
		MinSumAssured:       dec(t, "100000"),
		MaxSumAssured:       dec(t, "10000000"),
		PolicyTerms:         []int{10, 15, 20},
		PremiumPaymentTerms: []int{5, 10},
		Rates: catalog.RateTable{
			Bands: []catalog.RateBand{
				{
					AgeFrom:         18,
					AgeTo:           40,
					MaleNonSmoker:   dec(t, "2.5"),
					MaleSmoker:      dec(t, "3.75"),
					FemaleNonSmoker: dec(t, "2.25"),
					FemaleSmoker:    dec(t, "3.4"),
				},
				{
					AgeFrom:         40,
					AgeTo:           66,
					MaleNonSmoker:   dec(t, "4.1"),
					MaleSmoker:      dec(t, "6.15"),
					FemaleNonSmoker: dec(t, "3.7"),
					FemaleSmoker:    dec(t, "5.5"),
				},
			},
		},
		HSARTiers: []catalog.RebateTier{
			{SumAssuredFrom: dec(t, "250000"), Rebate: dec(t, "0.2")},
			{SumAssuredFrom: dec(t, "1000000"), Rebate: dec(t, "0.4")},
		},
		MinRatePer1000:          dec(t, "0.5"),
		DirectMarketingDiscount: dec(t, "0.10"),
		GSTFirstYear:            dec(t, "0.18"),
		GSTRenewal:              dec(t, "0.045"),
		ModalFactors: []catalog.ModalFactor{
			{Mode: models.ModeHalfYearly, Loading: dec(t, "1.02")},
			{Mode: models.ModeMonthly, Loading: dec(t, "1.04")},
		},
		Riders: []catalog.RiderDefinition{
			{Code: "ADB", Name: "Accidental Death Benefit", RatePer1000: dec(t, "0.5")},
		},
		FreeLookDays: 15,
	}
}

func testRequirement() *models.ClientRequirement {
	return &models.ClientRequirement{
		ProspectName:      "Asha",
		Age:               30,
		Gender:            models.GenderMale,
		BasicSumAssured:   decimal.NewFromInt(300000),
		PremiumMode:       models.ModeYearly,
		PremiumPayingTerm: 10,
		PolicyTerm:        15,
		MaturityAge:       45,
	}
}

func TestCalculateBreakdown(t *testing.T) {
	price, err := Calculate(testRequirement(), testPolicy(t))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	b := price.Breakdown
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"rate per 1000", b.RatePer1000, "2.5"},
		{"HSAR", b.HighSumAssuredRebate, "0.2"},
		{"rate after HSAR", b.RateAfterHSAR, "2.3"},
		{"raw annual premium", b.RawAnnualPremium, "690"},
		{"annual after discount", b.AnnualAfterDiscount, "621"},
		{"GST first year", b.GSTFirstYear, "111.78"},
		{"total installment year 1", b.TotalInstallmentYear1, "732.78"},
		{"GST subsequent year", b.GSTSubsequentYear, "27.945"},
		{"total year 2 onwards", b.TotalYear2Onwards, "648.945"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(t, c.want)) {
			t.Errorf("%s: got %s, want %s", c.name, c.got, c.want)
		}
	}

	if !price.TotalPremiumToPay.Equal(b.TotalInstallmentYear1) {
		t.Errorf("TotalPremiumToPay %s should equal year 1 installment %s",
			price.TotalPremiumToPay, b.TotalInstallmentYear1)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	req := testRequirement()
	policy := testPolicy(t)

	first, err := Calculate(req, policy)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Calculate(req, policy)
		if err != nil {
			t.Fatalf("Calculate failed on repeat: %v", err)
		}
		if !again.TotalPremiumToPay.Equal(first.TotalPremiumToPay) {
			t.Fatalf("run %d produced %s, first run produced %s",
				i, again.TotalPremiumToPay, first.TotalPremiumToPay)
		}
	}
}

func TestCalculateSmokerLoading(t *testing.T) {
	policy := testPolicy(t)

	nonSmoker := testRequirement()
	smoker := testRequirement()
	smoker.Smoker = true

	nsPrice, err := Calculate(nonSmoker, policy)
	if err != nil {
		t.Fatalf("Calculate non-smoker: %v", err)
	}
	sPrice, err := Calculate(smoker, policy)
	if err != nil {
		t.Fatalf("Calculate smoker: %v", err)
	}

	if !sPrice.TotalPremiumToPay.GreaterThan(nsPrice.TotalPremiumToPay) {
		t.Errorf("smoker premium %s should exceed non-smoker premium %s",
			sPrice.TotalPremiumToPay, nsPrice.TotalPremiumToPay)
	}
}

func TestCalculatePremiumMonotonicInSumAssured(t *testing.T) {
	policy := testPolicy(t)

	low := testRequirement()
	low.BasicSumAssured = decimal.NewFromInt(200000)
	high := testRequirement()
	high.BasicSumAssured = decimal.NewFromInt(240000)

	lowPrice, err := Calculate(low, policy)
	if err != nil {
		t.Fatalf("Calculate low SA: %v", err)
	}
	highPrice, err := Calculate(high, policy)
	if err != nil {
		t.Fatalf("Calculate high SA: %v", err)
	}

	if !highPrice.TotalPremiumToPay.GreaterThan(lowPrice.TotalPremiumToPay) {
		t.Errorf("premium should grow with sum assured within a rebate tier: %s vs %s",
			highPrice.TotalPremiumToPay, lowPrice.TotalPremiumToPay)
	}
}

func TestCalculateRateFloor(t *testing.T) {
	policy := testPolicy(t)
	// Rebate larger than the rate itself must clamp to the floor, not go
	// negative
	policy.HSARTiers = []catalog.RebateTier{
		{SumAssuredFrom: dec(t, "250000"), Rebate: dec(t, "5.0")},
	}

	price, err := Calculate(testRequirement(), policy)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !price.Breakdown.RateAfterHSAR.Equal(policy.MinRatePer1000) {
		t.Errorf("rate after HSAR %s should clamp to floor %s",
			price.Breakdown.RateAfterHSAR, policy.MinRatePer1000)
	}
	if price.TotalPremiumToPay.LessThanOrEqual(decimal.Zero) {
		t.Errorf("premium must stay positive, got %s", price.TotalPremiumToPay)
	}
}

func TestCalculateRiderLoading(t *testing.T) {
	policy := testPolicy(t)
	req := testRequirement()
	req.NeedRiders = []string{"ADB"}

	price, err := Calculate(req, policy)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// ADB at 0.5 per 1000 on 300000 adds 150 to the raw premium
	if !price.Breakdown.RawAnnualPremium.Equal(dec(t, "840")) {
		t.Errorf("raw premium with rider: got %s, want 840",
			price.Breakdown.RawAnnualPremium)
	}
}

func TestCalculateUnknownRiderIsInconsistency(t *testing.T) {
	req := testRequirement()
	req.NeedRiders = []string{"TPD"}

	_, err := Calculate(req, testPolicy(t))
	if err == nil {
		t.Fatal("expected error for rider the policy does not define")
	}
	if !errors.IsCode(err, errors.ErrCodePricingInconsistency) {
		t.Errorf("expected PRICING_INCONSISTENCY, got %v", err)
	}
}

func TestCalculateMissingRateBandIsInconsistency(t *testing.T) {
	policy := testPolicy(t)
	policy.Rates.Bands = policy.Rates.Bands[:1] // drop the 40-65 band

	req := testRequirement()
	req.Age = 50

	_, err := Calculate(req, policy)
	if err == nil {
		t.Fatal("expected error for missing rate band")
	}
	if !errors.IsCode(err, errors.ErrCodePricingInconsistency) {
		t.Errorf("expected PRICING_INCONSISTENCY, got %v", err)
	}
}

func TestCalculateModalDivision(t *testing.T) {
	policy := testPolicy(t)
	req := testRequirement()
	req.PremiumMode = models.ModeMonthly

	price, err := Calculate(req, policy)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// Yearly total 732.78, loaded by 1.04 and split across 12 installments:
	// 732.78 * 1.04 / 12 = 63.5076, rounded to 63.51
	if !price.TotalPremiumToPay.Equal(dec(t, "63.51")) {
		t.Errorf("monthly installment: got %s, want 63.51", price.TotalPremiumToPay)
	}

	annualized := price.TotalPremiumToPay.Mul(decimal.NewFromInt(12))
	yearly, err := Calculate(testRequirement(), policy)
	if err != nil {
		t.Fatalf("Calculate yearly: %v", err)
	}
	if !annualized.GreaterThan(yearly.TotalPremiumToPay) {
		t.Errorf("modal loading should make 12 monthly installments (%s) cost more than one yearly (%s)",
			annualized, yearly.TotalPremiumToPay)
	}
}

func TestCalculateHigherRebateTier(t *testing.T) {
	req := testRequirement()
	req.BasicSumAssured = decimal.NewFromInt(1000000)

	price, err := Calculate(req, testPolicy(t))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !price.Breakdown.HighSumAssuredRebate.Equal(dec(t, "0.4")) {
		t.Errorf("HSAR at 1000000: got %s, want 0.4", price.Breakdown.HighSumAssuredRebate)
	}
}
