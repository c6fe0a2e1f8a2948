package models

import (
	"github.com/shopspring/decimal"
)

// Gender is the life assured's gender as priced by the rate tables
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// PremiumMode is the premium payment frequency
type PremiumMode string

const (
	ModeYearly     PremiumMode = "yearly"
	ModeHalfYearly PremiumMode = "half-yearly"
	ModeQuarterly  PremiumMode = "quarterly"
	ModeMonthly    PremiumMode = "monthly"
)

// Frequency returns the number of installments per policy year
func (m PremiumMode) Frequency() int {
	switch m {
	case ModeHalfYearly:
		return 2
	case ModeQuarterly:
		return 4
	case ModeMonthly:
		return 12
	default:
		return 1
	}
}

// RiskProfile is the client's stated investment risk appetite
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskGrowth       RiskProfile = "growth"
)

// LiquidityPreference is how early the client wants access to policy value
type LiquidityPreference string

const (
	LiquidityLow    LiquidityPreference = "low"
	LiquidityMedium LiquidityPreference = "medium"
	LiquidityHigh   LiquidityPreference = "high"
)

// PayoutPreference is the client's preferred benefit payout shape
type PayoutPreference string

const (
	PayoutLumpSum     PayoutPreference = "lump-sum"
	PayoutIncome      PayoutPreference = "income"
	PayoutInstalments PayoutPreference = "instalments"
)

// Requirement bounds enforced by the normalizer
const (
	MinIssueAge = 18
	MaxIssueAge = 80
)

// ClientRequirement is the fully validated, canonicalized consultation input.
// Field names in JSON match the snapshot stored with each session, which is
// also what the consultation form submits as query parameters.
type ClientRequirement struct {
	ProspectName      string          `json:"prospectName"`
	LifeAssuredName   string          `json:"lifeAssuredName,omitempty"`
	Age               int             `json:"age"`
	Gender            Gender          `json:"gender"`
	BasicSumAssured   decimal.Decimal `json:"basicSumAssured"`
	PremiumMode       PremiumMode     `json:"premiumMode"`
	PremiumPayingTerm int             `json:"premiumPayingTerm"`
	PolicyTerm        int             `json:"policyTerm"`
	// MaturityAge is always recomputed as Age + PolicyTerm, never trusted
	// from the caller.
	MaturityAge int             `json:"maturityAge"`
	Budget      decimal.Decimal `json:"budget"`
	Requirement string          `json:"requirement,omitempty"`

	Smoker          bool            `json:"smoker"`
	AnnualIncome    decimal.Decimal `json:"annual_income"`
	CoverMultiplier int             `json:"cover_multiplier"`
	UseFixedAmount  bool            `json:"use_fixed_amount"`
	NeedLoanFeature bool            `json:"need_loan_feature"`
	NeedRiders      []string        `json:"need_riders"`

	LiquidityPreference LiquidityPreference `json:"liquidity_preference"`
	PayoutPreference    PayoutPreference    `json:"payout_preference"`
	RiskProfile         RiskProfile         `json:"risk_profile"`
	InsuranceType       string              `json:"insurance_type"`
}

// CoverageTarget is the income-multiple sum assured the client should carry.
// Zero when no income or multiplier was given.
func (r *ClientRequirement) CoverageTarget() decimal.Decimal {
	if r.CoverMultiplier <= 0 || r.AnnualIncome.IsZero() {
		return decimal.Zero
	}
	return r.AnnualIncome.Mul(decimal.NewFromInt(int64(r.CoverMultiplier)))
}
