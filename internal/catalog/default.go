package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/models"
)

// DefaultVersion identifies the built-in rate card shipped with the binary
const DefaultVersion = "builtin-2025-09"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func standardModalFactors() []ModalFactor {
	return []ModalFactor{
		{Mode: models.ModeHalfYearly, Loading: dec("1.02")},
		{Mode: models.ModeQuarterly, Loading: dec("1.03")},
		{Mode: models.ModeMonthly, Loading: dec("1.04")},
	}
}

// termBands is the common age banding used by the built-in rate cards. base is
// the male non-smoker rate of the youngest band; each five-year band steps up.
func termBands(base decimal.Decimal, step decimal.Decimal) []RateBand {
	bands := make([]RateBand, 0, 13)
	rate := base
	smokerLoad := dec("1.5")
	femaleRebate := dec("0.9")
	for age := 18; age < 81; {
		next := age + 5
		if age == 18 {
			next = 25
		}
		if next > 81 {
			next = 81
		}
		bands = append(bands, RateBand{
			AgeFrom:         age,
			AgeTo:           next,
			MaleNonSmoker:   rate,
			MaleSmoker:      rate.Mul(smokerLoad).Round(2),
			FemaleNonSmoker: rate.Mul(femaleRebate).Round(2),
			FemaleSmoker:    rate.Mul(femaleRebate).Mul(smokerLoad).Round(2),
		})
		rate = rate.Add(step)
		age = next
	}
	return bands
}

// DefaultSnapshot returns the built-in catalog of Indian life insurance
// products used when no CATALOG_PATH is configured.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Version: DefaultVersion,
		Policies: []PolicyDefinition{
			{
				ID:                  "indiafirst-guaranteed-protection",
				Insurer:             "IndiaFirst Life",
				Name:                "Guaranteed Protection Plan",
				RatecardVersion:     DefaultVersion,
				MinIssueAge:         18,
				MaxIssueAge:         65,
				MinSumAssured:       dec("100000"),
				MaxSumAssured:       dec("10000000"),
				PolicyTerms:         []int{10, 15, 20, 25},
				PremiumPaymentTerms: []int{5, 7, 10, 15},
				Rates:               RateTable{Bands: termBands(dec("2.20"), dec("0.30"))},
				HSARTiers: []RebateTier{
					{SumAssuredFrom: dec("250000"), Rebate: dec("0.20")},
					{SumAssuredFrom: dec("500000"), Rebate: dec("0.35")},
					{SumAssuredFrom: dec("1000000"), Rebate: dec("0.50")},
				},
				MinRatePer1000:          dec("0.50"),
				DirectMarketingDiscount: dec("0.10"),
				GSTFirstYear:            dec("0.18"),
				GSTRenewal:              dec("0.045"),
				ModalFactors:            standardModalFactors(),
				Riders: []RiderDefinition{
					{Code: "TPD", Name: "Total & Permanent Disability", RatePer1000: dec("0.40")},
					{Code: "ADB", Name: "Accidental Death Benefit", RatePer1000: dec("0.50")},
					{Code: "Waiver", Name: "Waiver of Premium", RatePer1000: dec("0.25")},
				},
				Loan:         LoanTerms{Allowed: true, MaxPctOfSurrender: 80},
				FreeLookDays: 30,
				Liquidity:    models.LiquidityMedium,
				Payout:       models.PayoutLumpSum,
				RiskClass:    models.RiskModerate,
			},
			{
				ID:                  "lic-jeevan-anand",
				Insurer:             "LIC of India",
				Name:                "New Jeevan Anand",
				RatecardVersion:     DefaultVersion,
				MinIssueAge:         18,
				MaxIssueAge:         50,
				MinSumAssured:       dec("100000"),
				MaxSumAssured:       dec("5000000"),
				PolicyTerms:         []int{15, 20, 25, 30},
				PremiumPaymentTerms: []int{10, 15, 20},
				Rates:               RateTable{Bands: termBands(dec("2.80"), dec("0.35"))},
				HSARTiers: []RebateTier{
					{SumAssuredFrom: dec("200000"), Rebate: dec("0.10")},
					{SumAssuredFrom: dec("500000"), Rebate: dec("0.25")},
				},
				MinRatePer1000:          dec("0.50"),
				DirectMarketingDiscount: dec("0.05"),
				GSTFirstYear:            dec("0.045"),
				GSTRenewal:              dec("0.0225"),
				ModalFactors:            standardModalFactors(),
				Riders: []RiderDefinition{
					{Code: "ADB", Name: "Accident Benefit Rider", RatePer1000: dec("0.50")},
					{Code: "Term Rider", Name: "New Term Assurance Rider", RatePer1000: dec("0.90")},
				},
				Loan:         LoanTerms{Allowed: true, MaxPctOfSurrender: 90},
				FreeLookDays: 15,
				Liquidity:    models.LiquidityLow,
				Payout:       models.PayoutLumpSum,
				RiskClass:    models.RiskConservative,
			},
			{
				ID:                  "hdfc-sanchay-plus",
				Insurer:             "HDFC Life",
				Name:                "Sanchay Plus",
				RatecardVersion:     DefaultVersion,
				MinIssueAge:         18,
				MaxIssueAge:         60,
				MinSumAssured:       dec("150000"),
				MaxSumAssured:       dec("20000000"),
				PolicyTerms:         []int{10, 12, 15, 20},
				PremiumPaymentTerms: []int{5, 7, 10, 12},
				Rates:               RateTable{Bands: termBands(dec("2.50"), dec("0.32"))},
				HSARTiers: []RebateTier{
					{SumAssuredFrom: dec("300000"), Rebate: dec("0.15")},
					{SumAssuredFrom: dec("750000"), Rebate: dec("0.30")},
					{SumAssuredFrom: dec("1500000"), Rebate: dec("0.45")},
				},
				MinRatePer1000:          dec("0.60"),
				DirectMarketingDiscount: dec("0.08"),
				GSTFirstYear:            dec("0.045"),
				GSTRenewal:              dec("0.0225"),
				ModalFactors:            standardModalFactors(),
				Riders: []RiderDefinition{
					{Code: "TPD", Name: "Disability Rider", RatePer1000: dec("0.35")},
					{Code: "Critical Illness", Name: "Critical Illness Plus", RatePer1000: dec("1.10")},
					{Code: "Waiver", Name: "Premium Waiver", RatePer1000: dec("0.20")},
				},
				Loan:         LoanTerms{Allowed: false},
				FreeLookDays: 30,
				Liquidity:    models.LiquidityHigh,
				Payout:       models.PayoutIncome,
				RiskClass:    models.RiskGrowth,
			},
			{
				ID:                  "icici-gift-pro",
				Insurer:             "ICICI Prudential",
				Name:                "Guaranteed Income For Tomorrow Pro",
				RatecardVersion:     DefaultVersion,
				MinIssueAge:         18,
				MaxIssueAge:         60,
				MinSumAssured:       dec("200000"),
				MaxSumAssured:       dec("15000000"),
				PolicyTerms:         []int{10, 15, 20},
				PremiumPaymentTerms: []int{5, 7, 10},
				Rates:               RateTable{Bands: termBands(dec("2.35"), dec("0.28"))},
				HSARTiers: []RebateTier{
					{SumAssuredFrom: dec("250000"), Rebate: dec("0.18")},
					{SumAssuredFrom: dec("600000"), Rebate: dec("0.32")},
				},
				MinRatePer1000:          dec("0.55"),
				DirectMarketingDiscount: dec("0.12"),
				GSTFirstYear:            dec("0.045"),
				GSTRenewal:              dec("0.0225"),
				ModalFactors:            standardModalFactors(),
				Riders: []RiderDefinition{
					{Code: "ADB", Name: "Accidental Death Benefit", RatePer1000: dec("0.45")},
					{Code: "Critical Illness", Name: "Critical Illness Benefit", RatePer1000: dec("1.05")},
					{Code: "Term Rider", Name: "Level Term Rider", RatePer1000: dec("0.85")},
					{Code: "Waiver", Name: "Waiver of Premium", RatePer1000: dec("0.22")},
				},
				Loan:         LoanTerms{Allowed: true, MaxPctOfSurrender: 85},
				FreeLookDays: 30,
				Liquidity:    models.LiquidityMedium,
				Payout:       models.PayoutInstalments,
				RiskClass:    models.RiskModerate,
			},
		},
	}
}
