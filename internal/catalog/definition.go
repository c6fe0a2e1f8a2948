package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/models"
)

// RateBand holds per-1000 sum assured annual rates for one age band.
// The band is closed at AgeFrom and open at AgeTo: [AgeFrom, AgeTo).
type RateBand struct {
	AgeFrom int `json:"age_from"`
	AgeTo   int `json:"age_to"`

	MaleNonSmoker   decimal.Decimal `json:"male_non_smoker"`
	MaleSmoker      decimal.Decimal `json:"male_smoker"`
	FemaleNonSmoker decimal.Decimal `json:"female_non_smoker"`
	FemaleSmoker    decimal.Decimal `json:"female_smoker"`
}

// RateTable is the ordered set of age bands for one product
type RateTable struct {
	Bands []RateBand `json:"bands"`
}

// Lookup returns the rate per 1000 SA for the given life. A missing band for
// an age the policy claims to issue is a pricing inconsistency, never zero.
func (t *RateTable) Lookup(age int, gender models.Gender, smoker bool) (decimal.Decimal, error) {
	for _, band := range t.Bands {
		if age < band.AgeFrom || age >= band.AgeTo {
			continue
		}
		switch {
		case gender == models.GenderFemale && smoker:
			return band.FemaleSmoker, nil
		case gender == models.GenderFemale:
			return band.FemaleNonSmoker, nil
		case smoker:
			return band.MaleSmoker, nil
		default:
			return band.MaleNonSmoker, nil
		}
	}
	return decimal.Zero, errors.PricingInconsistency(
		fmt.Sprintf("no rate band covers age %d", age), nil)
}

// RebateTier grants a per-1000 rebate at and above a sum assured threshold.
// Tiers are evaluated as step functions: closed lower bound, open upper bound.
type RebateTier struct {
	SumAssuredFrom decimal.Decimal `json:"sum_assured_from"`
	Rebate         decimal.Decimal `json:"rebate"`
}

// RiderDefinition is an optional benefit priced per 1000 SA like the base cover
type RiderDefinition struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	RatePer1000 decimal.Decimal `json:"rate_per_1000"`
}

// LoanTerms describes the policy loan facility, in the shape the results
// cards read.
type LoanTerms struct {
	Allowed           bool `json:"allowed"`
	MaxPctOfSurrender int  `json:"max_pct_of_surrender"`
}

// ModalFactor loads a non-yearly installment before dividing by frequency
type ModalFactor struct {
	Mode    models.PremiumMode `json:"mode"`
	Loading decimal.Decimal    `json:"loading"`
}

// PolicyDefinition is one insurer product with its rate card. Immutable once
// published; identified by (Insurer, ID, RatecardVersion).
type PolicyDefinition struct {
	ID              string `json:"id"`
	Insurer         string `json:"insurer"`
	Name            string `json:"name"`
	RatecardVersion string `json:"ratecard_version"`

	MinIssueAge   int             `json:"min_issue_age"`
	MaxIssueAge   int             `json:"max_issue_age"`
	MinSumAssured decimal.Decimal `json:"min_sum_assured"`
	MaxSumAssured decimal.Decimal `json:"max_sum_assured"`

	PolicyTerms         []int `json:"policy_terms"`
	PremiumPaymentTerms []int `json:"premium_payment_terms"`

	Rates          RateTable    `json:"rates"`
	HSARTiers      []RebateTier `json:"hsar_tiers"`
	// MinRatePer1000 floors the post-rebate rate; it can never go below this
	// and never negative.
	MinRatePer1000          decimal.Decimal `json:"min_rate_per_1000"`
	DirectMarketingDiscount decimal.Decimal `json:"direct_marketing_discount"`
	GSTFirstYear            decimal.Decimal `json:"gst_first_year"`
	GSTRenewal              decimal.Decimal `json:"gst_renewal"`
	ModalFactors            []ModalFactor   `json:"modal_factors"`

	Riders       []RiderDefinition `json:"riders"`
	Loan         LoanTerms         `json:"loan"`
	FreeLookDays int               `json:"free_look_days"`

	// Feature tags consumed by the scorer
	Liquidity models.LiquidityPreference `json:"liquidity"`
	Payout    models.PayoutPreference    `json:"payout"`
	RiskClass models.RiskProfile         `json:"risk_class"`
}

// HighSumAssuredRebate returns the per-1000 rebate for the given sum assured.
// Tiers are a step function; the highest tier at or below the sum applies.
func (p *PolicyDefinition) HighSumAssuredRebate(sumAssured decimal.Decimal) decimal.Decimal {
	rebate := decimal.Zero
	for _, tier := range p.HSARTiers {
		if sumAssured.GreaterThanOrEqual(tier.SumAssuredFrom) && tier.Rebate.GreaterThan(rebate) {
			rebate = tier.Rebate
		}
	}
	return rebate
}

// ModalLoading returns the loading factor for a premium mode (1 for yearly
// and for modes the policy does not define)
func (p *PolicyDefinition) ModalLoading(mode models.PremiumMode) decimal.Decimal {
	for _, f := range p.ModalFactors {
		if f.Mode == mode {
			return f.Loading
		}
	}
	return decimal.NewFromInt(1)
}

// Rider looks up a rider definition by code
func (p *PolicyDefinition) Rider(code string) (*RiderDefinition, bool) {
	for i := range p.Riders {
		if p.Riders[i].Code == code {
			return &p.Riders[i], true
		}
	}
	return nil, false
}

// SupportsTerm reports whether the requested policy term is offered
func (p *PolicyDefinition) SupportsTerm(term int) bool {
	return containsInt(p.PolicyTerms, term)
}

// SupportsPaymentTerm reports whether the requested premium paying term is offered
func (p *PolicyDefinition) SupportsPaymentTerm(term int) bool {
	return containsInt(p.PremiumPaymentTerms, term)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
