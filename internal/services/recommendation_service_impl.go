package services

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/insurebrain/policy-engine/internal/audit"
	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/eligibility"
	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/logger"
	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/pricing"
	"github.com/insurebrain/policy-engine/internal/requirement"
	"github.com/insurebrain/policy-engine/internal/scoring"
	"github.com/insurebrain/policy-engine/pkg/config"
)

// Pipeline stage names used in logs
const (
	stageNormalize = "normalize"
	stageFilter    = "filter"
	stagePrice     = "price_and_score"
	stageRank      = "rank"
	stageExplain   = "explain"
	stageAudit     = "audit"
)

// PolicyResult is one ranked recommendation in the shape the results cards
// render
type PolicyResult struct {
	Insurer             string                    `json:"insurer"`
	Name                string                    `json:"name"`
	Score               float64                   `json:"score"`
	MatchPercentage     int                       `json:"match_percentage"`
	AIExplanation       string                    `json:"ai_explanation"`
	Price               *pricing.Price            `json:"price"`
	PolicyTerms         []int                     `json:"policy_terms"`
	PremiumPaymentTerms []int                     `json:"premium_payment_terms"`
	Riders              []catalog.RiderDefinition `json:"riders"`
	Loan                catalog.LoanTerms         `json:"loan"`
	FreeLookDays        int                       `json:"free_look_days"`
}

// SessionInfo identifies the consultation in the response envelope
type SessionInfo struct {
	Hash      string    `json:"hash"`
	Agent     string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// Meta carries response metadata the dashboard reads
type Meta struct {
	Platform               string `json:"platform"`
	TotalPoliciesEvaluated int    `json:"total_policies_evaluated"`
}

// RecommendationResponse is the full consultation result envelope
type RecommendationResponse struct {
	Results                []PolicyResult `json:"results"`
	ComparativeExplanation string         `json:"comparative_explanation"`
	Session                SessionInfo    `json:"session"`
	Meta                   Meta           `json:"meta"`
}

// recommendationServiceImpl implements RecommendationService
type recommendationServiceImpl struct {
	cfg      *config.Config
	store    *catalog.Store
	recorder *audit.Recorder
	log      logger.Logger
}

// newRecommendationService creates a new recommendation service implementation
func newRecommendationService(cfg *config.Config, store *catalog.Store, recorder *audit.Recorder, log logger.Logger) RecommendationService {
	return &recommendationServiceImpl{
		cfg:      cfg,
		store:    store,
		recorder: recorder,
		log:      log,
	}
}

// Recommend runs the full consultation pipeline against the current catalog
// snapshot. An empty eligible set is a valid outcome, not an error: the
// response carries zero results and the catalog size as the evaluated count.
func (s *recommendationServiceImpl) Recommend(ctx context.Context, params url.Values, agent string) (*RecommendationResponse, error) {
	started := time.Now()

	req, err := requirement.Normalize(params)
	if err != nil {
		return nil, err
	}

	// The snapshot is pinned here: a mid-request catalog reload never mixes
	// rate card versions within one consultation.
	snap, err := s.store.Current()
	if err != nil {
		return nil, err
	}

	eligible := eligibility.Filter(req, snap)
	s.log.Debug("eligibility filter complete",
		"stage", stageFilter,
		"agent", agent,
		"catalog_version", snap.Version,
		"catalog_size", snap.Size(),
		"eligible", len(eligible))

	if len(eligible) == 0 {
		return s.emptyResponse(ctx, req, snap, agent, started)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.InternalError("request cancelled", err)
	}

	engine := scoring.NewEngine(scoring.DefaultWeights(req.InsuranceType))
	scored, err := s.priceAndScore(engine, req, eligible)
	if err != nil {
		s.log.Error("pricing failed, no partial results returned", err,
			"stage", stagePrice,
			"agent", agent,
			"catalog_version", snap.Version)
		return nil, err
	}

	scoring.Rank(scored)
	top := scoring.TopN(scored, s.cfg.TopN)

	for _, sp := range top {
		sp.Explanation = engine.Explain(req, sp)
	}
	var runner *scoring.ScoredPolicy
	if len(top) > 1 {
		runner = top[1]
	}
	comparative := engine.ExplainComparative(req, top[0], runner)

	record, err := s.recorder.BuildRecord(req, snap.Version, top, agent, time.Since(started))
	if err != nil {
		return nil, err
	}
	s.recorder.Submit(record)

	s.log.Info("consultation complete",
		"stage", stageAudit,
		"agent", agent,
		"session_hash", record.SessionHash,
		"catalog_version", snap.Version,
		"evaluated", len(eligible),
		"results", len(top),
		"duration_ms", time.Since(started).Milliseconds())

	return &RecommendationResponse{
		Results:                s.buildResults(top),
		ComparativeExplanation: comparative,
		Session: SessionInfo{
			Hash:      record.SessionHash,
			Agent:     agent,
			Timestamp: record.CreatedAt,
		},
		Meta: Meta{
			Platform:               s.cfg.PlatformTag,
			TotalPoliciesEvaluated: len(eligible),
		},
	}, nil
}

// priceAndScore prices and scores each eligible policy concurrently. Any
// pricing inconsistency aborts the whole batch: partial result sets would
// silently hide policies from the advisor.
func (s *recommendationServiceImpl) priceAndScore(engine *scoring.Engine, req *models.ClientRequirement, eligible []*catalog.PolicyDefinition) ([]*scoring.ScoredPolicy, error) {
	scored := make([]*scoring.ScoredPolicy, len(eligible))
	errs := make([]error, len(eligible))

	var wg sync.WaitGroup
	for i, policy := range eligible {
		wg.Add(1)
		go func(i int, policy *catalog.PolicyDefinition) {
			defer wg.Done()
			price, err := pricing.Calculate(req, policy)
			if err != nil {
				errs[i] = err
				return
			}
			result := engine.Score(req, policy, price)
			scored[i] = &scoring.ScoredPolicy{
				Policy: policy,
				Price:  price,
				Result: result,
			}
		}(i, policy)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scored, nil
}

// emptyResponse builds the no-match envelope. The session is still audited:
// a consultation that found nothing is a consultation that happened.
func (s *recommendationServiceImpl) emptyResponse(ctx context.Context, req *models.ClientRequirement, snap *catalog.Snapshot, agent string, started time.Time) (*RecommendationResponse, error) {
	record, err := s.recorder.BuildRecord(req, snap.Version, nil, agent, time.Since(started))
	if err != nil {
		return nil, err
	}
	s.recorder.Submit(record)

	s.log.Info("consultation found no eligible policies",
		"stage", stageFilter,
		"agent", agent,
		"session_hash", record.SessionHash,
		"catalog_version", snap.Version,
		"catalog_size", snap.Size())

	return &RecommendationResponse{
		Results:                []PolicyResult{},
		ComparativeExplanation: "No policy in the current catalog matches the stated requirement.",
		Session: SessionInfo{
			Hash:      record.SessionHash,
			Agent:     agent,
			Timestamp: record.CreatedAt,
		},
		Meta: Meta{
			Platform:               s.cfg.PlatformTag,
			TotalPoliciesEvaluated: snap.Size(),
		},
	}, nil
}

func (s *recommendationServiceImpl) buildResults(top []*scoring.ScoredPolicy) []PolicyResult {
	results := make([]PolicyResult, 0, len(top))
	for _, sp := range top {
		results = append(results, PolicyResult{
			Insurer:             sp.Policy.Insurer,
			Name:                sp.Policy.Name,
			Score:               sp.Result.Score,
			MatchPercentage:     sp.Result.MatchPercentage,
			AIExplanation:       sp.Explanation,
			Price:               sp.Price,
			PolicyTerms:         sp.Policy.PolicyTerms,
			PremiumPaymentTerms: sp.Policy.PremiumPaymentTerms,
			Riders:              sp.Policy.Riders,
			Loan:                sp.Policy.Loan,
			FreeLookDays:        sp.Policy.FreeLookDays,
		})
	}
	return results
}
