package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/logger"
	"github.com/insurebrain/policy-engine/internal/models"
	"github.com/insurebrain/policy-engine/internal/repository"
	"github.com/insurebrain/policy-engine/internal/scoring"
)

// Recorder writes session audit records off the request path. Failed writes
// are retried a bounded number of times, then escalated via the log; they
// never fail the recommendation response the client already received.
type Recorder struct {
	sessions repository.SessionRepository
	log      logger.Logger
	retryMax int
	wg       sync.WaitGroup
}

// NewRecorder creates an audit recorder
func NewRecorder(sessions repository.SessionRepository, log logger.Logger, retryMax int) *Recorder {
	if retryMax < 1 {
		retryMax = 1
	}
	return &Recorder{
		sessions: sessions,
		log:      log,
		retryMax: retryMax,
	}
}

// BuildRecord assembles the immutable session record for a completed
// consultation, including its content hash.
func (r *Recorder) BuildRecord(req *models.ClientRequirement, catalogVersion string, ranked []*scoring.ScoredPolicy, agent string, duration time.Duration) (*repository.Session, error) {
	hash, err := SessionHash(req, catalogVersion, ranked)
	if err != nil {
		return nil, errors.AuditWriteFailure("failed to compute session hash", err)
	}

	recommendations := make([]repository.Recommendation, 0, len(ranked))
	for _, sp := range ranked {
		recommendations = append(recommendations, repository.Recommendation{
			PolicyID:        sp.Policy.ID,
			PolicyName:      sp.Policy.Name,
			Insurer:         sp.Policy.Insurer,
			Score:           sp.Result.Score,
			MatchPercentage: sp.Result.MatchPercentage,
			Pricing: repository.RecommendationPricing{
				InstallmentYear1: sp.Price.Breakdown.TotalInstallmentYear1,
			},
		})
	}

	return &repository.Session{
		ID:              uuid.New(),
		SessionHash:     hash,
		Agent:           agent,
		Status:          repository.SessionStatusCompleted,
		CatalogVersion:  catalogVersion,
		ClientData:      *req,
		Recommendations: recommendations,
		DurationMS:      duration.Milliseconds(),
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Submit queues the record for persistence and returns immediately
func (r *Recorder) Submit(session *repository.Session) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.persist(session)
	}()
}

func (r *Recorder) persist(session *repository.Session) {
	var lastErr error
	for attempt := 1; attempt <= r.retryMax; attempt++ {
		if lastErr = r.sessions.Append(session); lastErr == nil {
			if attempt > 1 {
				r.log.Info("audit record persisted after retry",
					"session_hash", session.SessionHash,
					"attempt", attempt)
			}
			return
		}
		// The consultation response has already gone out by now, so a
		// record that only lands on a retry carries the unaudited flag.
		session.Status = repository.SessionStatusUnaudited
		r.log.Warn("audit record write failed",
			"session_hash", session.SessionHash,
			"attempt", attempt,
			"error", lastErr.Error())
		if attempt < r.retryMax {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}

	r.log.Error("audit record dropped after exhausting retries", lastErr,
		"code", errors.ErrCodeAuditWriteFailure,
		"session_hash", session.SessionHash,
		"agent", session.Agent,
		"attempts", r.retryMax)
}

// Wait blocks until all in-flight audit writes have finished. Called on
// shutdown so queued records are not lost.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
