package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/eligibility"
	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/pricing"
	"github.com/insurebrain/policy-engine/internal/scoring"
)

// pricecheck prices a sample requirement against the builtin catalog and
// prints every breakdown. Used to eyeball rate card changes before
// publishing them.
func main() {
	age := flag.Int("age", 30, "age of the life assured")
	sumAssured := flag.String("sa", "500000", "basic sum assured")
	budget := flag.String("budget", "0", "annual budget (0 for none)")
	smoker := flag.Bool("smoker", false, "smoker status")
	gender := flag.String("gender", "male", "gender (male/female)")
	mode := flag.String("mode", "yearly", "premium mode")
	policyTerm := flag.Int("term", 15, "policy term in years")
	paymentTerm := flag.Int("ppt", 10, "premium paying term in years")
	catalogPath := flag.String("catalog", "", "catalog file (builtin when empty)")
	flag.Parse()

	sa, err := decimal.NewFromString(*sumAssured)
	if err != nil {
		log.Fatalf("invalid sum assured: %v", err)
	}
	budgetDec, err := decimal.NewFromString(*budget)
	if err != nil {
		log.Fatalf("invalid budget: %v", err)
	}

	snap := catalog.DefaultSnapshot()
	if *catalogPath != "" {
		snap, err = catalog.LoadSnapshot(*catalogPath)
		if err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
	}

	req := &models.ClientRequirement{
		ProspectName:        "pricecheck",
		Age:                 *age,
		Gender:              models.Gender(*gender),
		BasicSumAssured:     sa,
		PremiumMode:         models.PremiumMode(*mode),
		PremiumPayingTerm:   *paymentTerm,
		PolicyTerm:          *policyTerm,
		MaturityAge:         *age + *policyTerm,
		Budget:              budgetDec,
		Smoker:              *smoker,
		UseFixedAmount:      true,
		LiquidityPreference: models.LiquidityMedium,
		PayoutPreference:    models.PayoutLumpSum,
		RiskProfile:         models.RiskModerate,
		InsuranceType:       "life",
	}

	fmt.Printf("Catalog %s (%d policies)\n", snap.Version, snap.Size())
	fmt.Printf("Life: age %d, %s, smoker=%v, SA %s, term %d/%d, mode %s\n\n",
		req.Age, req.Gender, req.Smoker, sa.String(), *paymentTerm, *policyTerm, *mode)

	engine := scoring.NewEngine(scoring.DefaultWeights(req.InsuranceType))

	for i := range snap.Policies {
		policy := &snap.Policies[i]
		fmt.Printf("== %s / %s (%s)\n", policy.Insurer, policy.Name, policy.RatecardVersion)
		if !eligibility.Eligible(req, policy) {
			fmt.Println("   not eligible")
			continue
		}

		price, err := pricing.Calculate(req, policy)
		if err != nil {
			fmt.Printf("   pricing failed: %v\n", err)
			continue
		}
		result := engine.Score(req, policy, price)

		out, err := json.MarshalIndent(map[string]interface{}{
			"price": price,
			"score": result,
		}, "   ", "  ")
		if err != nil {
			log.Fatalf("failed to render result: %v", err)
		}
		fmt.Printf("   %s\n", out)
	}
}
