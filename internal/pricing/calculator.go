package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/models"
)

var (
	thousand = decimal.NewFromInt(1000)
	one      = decimal.NewFromInt(1)
)

// Breakdown is the full derivation of a quoted premium. Field names match the
// breakdown drawer the consultation UI renders. One instance per
// (requirement, policy) pair; never mutated after creation.
type Breakdown struct {
	RatePer1000             decimal.Decimal `json:"rate_per_1000"`
	HighSumAssuredRebate    decimal.Decimal `json:"high_sum_assured_rebate"`
	RateAfterHSAR           decimal.Decimal `json:"rate_after_hsar"`
	RawAnnualPremium        decimal.Decimal `json:"raw_annual_premium"`
	DirectMarketingDiscount decimal.Decimal `json:"direct_marketing_discount"`
	AnnualAfterDiscount     decimal.Decimal `json:"annual_after_discount"`
	GSTFirstYear            decimal.Decimal `json:"gst_first_year"`
	TotalInstallmentYear1   decimal.Decimal `json:"total_installment_year1"`
	GSTSubsequentYear       decimal.Decimal `json:"gst_subsequent_year"`
	TotalYear2Onwards       decimal.Decimal `json:"total_year2_onwards"`
}

// Price is the quoted premium for one policy against one requirement
type Price struct {
	TotalPremiumToPay decimal.Decimal `json:"totalPremiumToPay"`
	Breakdown         Breakdown       `json:"breakdown"`
}

// Calculate prices a policy for a requirement. Pure and deterministic: the
// same (requirement, policy) pair always produces the identical breakdown.
// Unresolvable lookups surface as PricingInconsistency, never a zero premium.
func Calculate(req *models.ClientRequirement, policy *catalog.PolicyDefinition) (*Price, error) {
	rate, err := policy.Rates.Lookup(req.Age, req.Gender, req.Smoker)
	if err != nil {
		return nil, err
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, errors.PricingInconsistency(
			fmt.Sprintf("policy %s has non-positive rate for age %d", policy.ID, req.Age), nil)
	}

	rebate := policy.HighSumAssuredRebate(req.BasicSumAssured)

	rateAfter := rate.Sub(rebate)
	if rateAfter.LessThan(policy.MinRatePer1000) {
		rateAfter = policy.MinRatePer1000
	}
	if rateAfter.LessThan(decimal.Zero) {
		rateAfter = decimal.Zero
	}

	raw := req.BasicSumAssured.Mul(rateAfter).DivRound(thousand, 2)
	for _, code := range req.NeedRiders {
		rider, ok := policy.Rider(code)
		if !ok {
			return nil, errors.PricingInconsistency(
				fmt.Sprintf("policy %s does not define rider %q", policy.ID, code), nil)
		}
		raw = raw.Add(req.BasicSumAssured.Mul(rider.RatePer1000).DivRound(thousand, 2))
	}

	annualAfter := raw.Mul(one.Sub(policy.DirectMarketingDiscount)).Round(2)

	gstFirst := annualAfter.Mul(policy.GSTFirstYear)
	totalYear1 := annualAfter.Add(gstFirst)

	gstRenewal := annualAfter.Mul(policy.GSTRenewal)
	totalRenewal := annualAfter.Add(gstRenewal)

	if freq := req.PremiumMode.Frequency(); freq > 1 {
		loading := policy.ModalLoading(req.PremiumMode)
		div := decimal.NewFromInt(int64(freq))
		totalYear1 = totalYear1.Mul(loading).DivRound(div, 2)
		totalRenewal = totalRenewal.Mul(loading).DivRound(div, 2)
	}

	return &Price{
		TotalPremiumToPay: totalYear1,
		Breakdown: Breakdown{
			RatePer1000:             rate,
			HighSumAssuredRebate:    rebate,
			RateAfterHSAR:           rateAfter,
			RawAnnualPremium:        raw,
			DirectMarketingDiscount: policy.DirectMarketingDiscount,
			AnnualAfterDiscount:     annualAfter,
			GSTFirstYear:            gstFirst,
			TotalInstallmentYear1:   totalYear1,
			GSTSubsequentYear:       gstRenewal,
			TotalYear2Onwards:       totalRenewal,
		},
	}, nil
}
