// Package orchestrator sequences the hosted-model agents into the two
// processing stages: the core sentiment->score->title pipeline that runs at
// ingestion, and the on-demand analytics pipeline that runs over a review
// collection.
package orchestrator

import (
	"context"
	"time"

	"github.com/phuslu/log"

	"review-insight/agents"
	"review-insight/models"
)

// Stage names a review passes through during core processing.
type Stage string

const (
	StagePending    Stage = "pending"
	StageClassified Stage = "classified"
	StageScored     Stage = "scored"
	StageTitled     Stage = "titled"
	StageDone       Stage = "done"
)

// Outcome is the per-review result of a core-processing run. On failure it
// records the stage that was reached and the agent's error classification.
type Outcome struct {
	ReviewID   string           `json:"review_id"`
	Status     string           `json:"status"` // done | failed
	Stage      Stage            `json:"stage"`
	Sentiment  string           `json:"sentiment,omitempty"`
	Confidence float64          `json:"confidence,omitempty"`
	AIScore    float64          `json:"ai_score,omitempty"`
	Title      string           `json:"title,omitempty"`
	ErrorKind  agents.ErrorKind `json:"error_kind,omitempty"`
	Error      string           `json:"error,omitempty"`
	Elapsed    float64          `json:"elapsed_seconds"`
}

// Done reports whether the run committed.
func (o Outcome) Done() bool {
	return o.Status == "done"
}

// ReviewStore is what the pipeline needs from persistence. The commit is
// all-or-nothing: SaveAnalysis writes the four AI fields together, and on
// failure only the error note is recorded.
type ReviewStore interface {
	SaveAnalysis(ctx context.Context, review *models.Review) error
	SaveFailure(ctx context.Context, reviewID, message string) error
}

// Stage1Pipeline runs classifier -> scorer -> title generator for one
// review, threading each step's output into the next step's input.
type Stage1Pipeline struct {
	classifier agents.Classifier
	scorer     agents.Scorer
	titler     agents.TitleGenerator
	store      ReviewStore
	logger     log.Logger
}

func NewStage1Pipeline(classifier agents.Classifier, scorer agents.Scorer, titler agents.TitleGenerator, store ReviewStore, logger log.Logger) *Stage1Pipeline {
	return &Stage1Pipeline{
		classifier: classifier,
		scorer:     scorer,
		titler:     titler,
		store:      store,
		logger:     logger,
	}
}

// Run executes the state machine pending -> classified -> scored -> titled
// -> done for one review. A step failure aborts the run and leaves every AI
// field untouched; results are committed only after all steps succeed.
// An externally supplied title short-circuits the title step.
func (p *Stage1Pipeline) Run(ctx context.Context, review *models.Review) Outcome {
	start := time.Now()
	stage := StagePending

	classification, err := p.classifier.Classify(ctx, review.Text)
	if err != nil {
		return p.fail(ctx, review, stage, start, err)
	}
	stage = StageClassified

	score, err := p.scorer.Score(ctx, review.Text, classification.Sentiment)
	if err != nil {
		return p.fail(ctx, review, stage, start, err)
	}
	stage = StageScored

	// Externally supplied data takes precedence over generated data.
	title := review.Title
	if title == "" {
		generated, err := p.titler.GenerateTitle(ctx, review.Text, classification.Sentiment)
		if err != nil {
			return p.fail(ctx, review, stage, start, err)
		}
		title = generated.Text
	}
	stage = StageTitled

	updated := *review
	updated.Sentiment = classification.Sentiment
	updated.Confidence = classification.Confidence
	updated.AIScore = score.Value
	updated.Title = title
	updated.Processed = true
	updated.ProcessingError = ""

	if err := p.store.SaveAnalysis(ctx, &updated); err != nil {
		return p.fail(ctx, review, stage, start, err)
	}
	*review = updated
	stage = StageDone

	p.logger.Info().
		Str("review_id", review.ID).
		Str("sentiment", review.Sentiment).
		Float64("score", review.AIScore).
		Dur("elapsed", time.Since(start)).
		Msg("review processed")

	return Outcome{
		ReviewID:   review.ID,
		Status:     "done",
		Stage:      stage,
		Sentiment:  review.Sentiment,
		Confidence: review.Confidence,
		AIScore:    review.AIScore,
		Title:      review.Title,
		Elapsed:    time.Since(start).Seconds(),
	}
}

// RunBatch runs an independent state machine per review. One review's
// failure never aborts the batch; outcomes come back in input order.
func (p *Stage1Pipeline) RunBatch(ctx context.Context, reviews []models.Review) []Outcome {
	outcomes := make([]Outcome, 0, len(reviews))
	for i := range reviews {
		outcomes = append(outcomes, p.Run(ctx, &reviews[i]))
	}
	return outcomes
}

func (p *Stage1Pipeline) fail(ctx context.Context, review *models.Review, stage Stage, start time.Time, err error) Outcome {
	kind := agents.KindOf(err)

	p.logger.Warn().
		Str("review_id", review.ID).
		Str("stage", string(stage)).
		Str("kind", string(kind)).
		Err(err).
		Msg("review processing failed")

	if saveErr := p.store.SaveFailure(ctx, review.ID, err.Error()); saveErr != nil {
		p.logger.Error().Str("review_id", review.ID).Err(saveErr).Msg("could not record processing failure")
	}

	return Outcome{
		ReviewID:  review.ID,
		Status:    "failed",
		Stage:     stage,
		ErrorKind: kind,
		Error:     err.Error(),
		Elapsed:   time.Since(start).Seconds(),
	}
}
