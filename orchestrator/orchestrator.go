package orchestrator

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"review-insight/agents"
	"review-insight/models"
)

// BatchOutcome aggregates a batch run. Outcomes preserve input order.
type BatchOutcome struct {
	Outcomes  []Outcome `json:"outcomes"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// AgentStatus is the cheap liveness signal the dashboard health widget
// polls. It reflects construction state only; no network probe happens.
type AgentStatus struct {
	Constructed bool   `json:"constructed"`
	Detail      string `json:"detail,omitempty"`
}

// Stage2Factory builds the analytics pipeline on first use.
type Stage2Factory func() (*Stage2Pipeline, error)

// Orchestrator is the single entry point the web layer calls. It owns the
// core pipeline eagerly and the analytics pipeline lazily: the analytics
// agents are constructed at most once per process and shared across
// requests afterwards.
type Orchestrator struct {
	stage1        *Stage1Pipeline
	stage2Factory Stage2Factory
	logger        log.Logger

	mu     sync.Mutex
	stage2 *Stage2Pipeline
}

func New(stage1 *Stage1Pipeline, stage2Factory Stage2Factory, logger log.Logger) *Orchestrator {
	return &Orchestrator{
		stage1:        stage1,
		stage2Factory: stage2Factory,
		logger:        logger,
	}
}

// ProcessReview runs core processing for one review. Re-running a review
// that is already done overwrites its AI fields; there is no versioning.
func (o *Orchestrator) ProcessReview(ctx context.Context, review *models.Review) Outcome {
	return o.stage1.Run(ctx, review)
}

// ProcessBatch runs core processing independently per review and reports
// aggregate counts alongside the ordered outcomes.
func (o *Orchestrator) ProcessBatch(ctx context.Context, reviews []models.Review) BatchOutcome {
	outcomes := o.stage1.RunBatch(ctx, reviews)

	batch := BatchOutcome{Outcomes: outcomes, Total: len(outcomes)}
	for _, outcome := range outcomes {
		if outcome.Done() {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	return batch
}

// GenerateAnalytics runs the analytics pipeline over a review set. Reviews
// without core results are excluded and the exclusion is reported on the
// result; an empty eligible set is a caller error. Every call is a full
// recompute.
func (o *Orchestrator) GenerateAnalytics(ctx context.Context, reviews []models.Review) (*AnalysisResult, error) {
	if len(reviews) == 0 {
		return nil, &agents.Error{Agent: "orchestrator", Kind: agents.KindValidation, Err: errEmptyReviewSet}
	}

	inputs := make([]agents.ReviewInput, 0, len(reviews))
	excluded := 0
	for _, r := range reviews {
		if !r.Processed {
			excluded++
			continue
		}
		inputs = append(inputs, agents.ReviewInput{
			Text:      r.Text,
			Sentiment: r.Sentiment,
			Score:     r.AIScore,
		})
	}

	if len(inputs) == 0 {
		return nil, &agents.Error{Agent: "orchestrator", Kind: agents.KindValidation, Err: errNoEligibleReviews}
	}

	pipeline, err := o.stage2Pipeline()
	if err != nil {
		return nil, err
	}

	result := pipeline.Run(ctx, inputs)
	result.ExcludedReviews = excluded
	return result, nil
}

// stage2Pipeline returns the analytics pipeline, constructing it on first
// use. The mutex guarantees concurrent first requests cannot construct it
// twice; a failed construction leaves the slot empty so a later request
// can try again.
func (o *Orchestrator) stage2Pipeline() (*Stage2Pipeline, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stage2 != nil {
		return o.stage2, nil
	}

	pipeline, err := o.stage2Factory()
	if err != nil {
		o.logger.Error().Err(err).Msg("analytics pipeline construction failed")
		return nil, err
	}

	o.stage2 = pipeline
	o.logger.Info().Msg("analytics pipeline initialized")
	return pipeline, nil
}

// AgentStatus reports per-agent construction state.
func (o *Orchestrator) AgentStatus() map[string]AgentStatus {
	o.mu.Lock()
	analyticsReady := o.stage2 != nil
	o.mu.Unlock()

	analyticsDetail := "constructed on first analytics request"
	if analyticsReady {
		analyticsDetail = ""
	}

	return map[string]AgentStatus{
		"classifier":      {Constructed: true},
		"scorer":          {Constructed: true},
		"title_generator": {Constructed: true},
		"tagger":          {Constructed: analyticsReady, Detail: analyticsDetail},
		"summarizer":      {Constructed: analyticsReady, Detail: analyticsDetail},
		"recommender":     {Constructed: analyticsReady, Detail: analyticsDetail},
	}
}
