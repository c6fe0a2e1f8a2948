// Package requirement validates and canonicalizes raw consultation inputs
// into a typed ClientRequirement. The server trusts nothing from the query
// string; rejection happens here at the boundary, never at deep call sites.
package requirement

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/models"
)

// Defaults applied when optional fields are absent
const (
	defaultPolicyTerm        = 15
	defaultPremiumPayingTerm = 10
)

type fieldCollector struct {
	fields []errors.FieldError
}

func (c *fieldCollector) add(field, message string) {
	c.fields = append(c.fields, errors.FieldError{Field: field, Message: message})
}

// Normalize turns raw key/value parameters into a validated requirement. It
// is a pure transform. On failure it returns a VALIDATION_ERROR listing every
// offending field, not just the first.
func Normalize(params url.Values) (*models.ClientRequirement, error) {
	c := &fieldCollector{}

	req := &models.ClientRequirement{
		ProspectName:    strings.TrimSpace(params.Get("prospectName")),
		LifeAssuredName: strings.TrimSpace(params.Get("lifeAssuredName")),
		Requirement:     strings.TrimSpace(params.Get("requirement")),
		InsuranceType:   stringOr(params.Get("insurance_type"), "life"),
	}

	if req.ProspectName == "" {
		c.add("prospectName", "prospect name is required")
	}

	age, ageParsed := parseIntField(c, params, "age", 0, true)
	req.Age = age
	if ageParsed && (age < models.MinIssueAge || age > models.MaxIssueAge) {
		c.add("age", fmt.Sprintf("age must be between %d and %d", models.MinIssueAge, models.MaxIssueAge))
	}

	req.BasicSumAssured = parseDecimalField(c, params, "basicSumAssured", decimal.Zero, true)
	if raw := params.Get("basicSumAssured"); raw != "" {
		if _, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil &&
			req.BasicSumAssured.LessThanOrEqual(decimal.Zero) {
			c.add("basicSumAssured", "basic sum assured must be greater than zero")
		}
	}

	req.PolicyTerm, _ = parseIntField(c, params, "policyTerm", defaultPolicyTerm, false)
	req.PremiumPayingTerm, _ = parseIntField(c, params, "premiumPayingTerm", defaultPremiumPayingTerm, false)
	if req.PolicyTerm < req.PremiumPayingTerm {
		c.add("policyTerm", "policy term must be at least the premium paying term")
	}
	// Maturity age is derived, never trusted from the caller.
	req.MaturityAge = req.Age + req.PolicyTerm

	req.Budget = parseDecimalField(c, params, "budget", decimal.Zero, false)
	req.AnnualIncome = parseDecimalField(c, params, "annual_income", decimal.Zero, false)
	req.CoverMultiplier, _ = parseIntField(c, params, "cover_multiplier", 0, false)

	req.Smoker = parseBoolField(c, params, "smoker", false)
	req.UseFixedAmount = parseBoolField(c, params, "use_fixed_amount", true)
	req.NeedLoanFeature = parseBoolField(c, params, "need_loan_feature", false)
	req.NeedRiders = parseRiderList(c, params.Get("need_riders"))

	req.Gender = models.Gender(parseEnumField(c, params, "gender", string(models.GenderMale),
		string(models.GenderMale), string(models.GenderFemale)))
	req.PremiumMode = models.PremiumMode(parseEnumField(c, params, "premiumMode", string(models.ModeYearly),
		string(models.ModeYearly), string(models.ModeHalfYearly), string(models.ModeQuarterly), string(models.ModeMonthly)))
	req.RiskProfile = models.RiskProfile(parseEnumField(c, params, "risk_profile", string(models.RiskModerate),
		string(models.RiskConservative), string(models.RiskModerate), string(models.RiskGrowth)))
	req.LiquidityPreference = models.LiquidityPreference(parseEnumField(c, params, "liquidity_preference", string(models.LiquidityMedium),
		string(models.LiquidityLow), string(models.LiquidityMedium), string(models.LiquidityHigh)))
	req.PayoutPreference = models.PayoutPreference(parseEnumField(c, params, "payout_preference", string(models.PayoutLumpSum),
		string(models.PayoutLumpSum), string(models.PayoutIncome), string(models.PayoutInstalments)))

	if len(c.fields) > 0 {
		return nil, errors.Validation(c.fields)
	}
	return req, nil
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// parseIntField reports, through its second return, whether the caller
// actually supplied a parseable value: a fallback and a literal zero are
// otherwise indistinguishable to range checks.
func parseIntField(c *fieldCollector, params url.Values, field string, fallback int, required bool) (int, bool) {
	raw := params.Get(field)
	if raw == "" {
		if required {
			c.add(field, field+" is required")
		}
		return fallback, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.add(field, field+" must be a whole number")
		return fallback, false
	}
	return v, true
}

func parseDecimalField(c *fieldCollector, params url.Values, field string, fallback decimal.Decimal, required bool) decimal.Decimal {
	raw := params.Get(field)
	if raw == "" {
		if required {
			c.add(field, field+" is required")
		}
		return fallback
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		c.add(field, field+" must be numeric")
		return fallback
	}
	return v
}

func parseBoolField(c *fieldCollector, params url.Values, field string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(params.Get(field)))
	switch raw {
	case "":
		return fallback
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		c.add(field, field+" must be a boolean")
		return fallback
	}
}

func parseEnumField(c *fieldCollector, params url.Values, field, fallback string, allowed ...string) string {
	raw := strings.ToLower(strings.TrimSpace(params.Get(field)))
	if raw == "" {
		return fallback
	}
	for _, v := range allowed {
		if raw == v {
			return raw
		}
	}
	c.add(field, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	return fallback
}

// parseRiderList decodes the rider selection from its serialized form: a JSON
// array of rider codes, as the consultation form submits it.
func parseRiderList(c *fieldCollector, raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}
	var riders []string
	if err := json.Unmarshal([]byte(raw), &riders); err != nil {
		c.add("need_riders", "need_riders must be a JSON array of rider codes")
		return nil
	}
	out := riders[:0]
	for _, r := range riders {
		r = strings.TrimSpace(r)
		if r == "" {
			c.add("need_riders", "need_riders must not contain empty rider codes")
			return nil
		}
		out = append(out, r)
	}
	return out
}
