package orchestrator

import (
	"context"
	"time"

	"github.com/phuslu/log"

	"review-insight/agents"
	"review-insight/models"
)

// AnalysisResult is one full analytics recompute over a review collection.
// Sections carry their own status so a partial result renders as partial:
// a skipped section is distinguishable from a failed one.
type AnalysisResult struct {
	EligibleReviews int `json:"eligible_reviews"`
	ExcludedReviews int `json:"excluded_reviews"`

	Tags       *agents.TagReport `json:"tags,omitempty"`
	TagsStatus string            `json:"tags_status"`
	TagsError  string            `json:"tags_error,omitempty"`

	Summary       string `json:"summary,omitempty"`
	SummaryStatus string `json:"summary_status"`
	SummaryError  string `json:"summary_error,omitempty"`

	Recommendations       []agents.Recommendation `json:"recommendations,omitempty"`
	RecommendationsStatus string                  `json:"recommendations_status"`
	RecommendationsError  string                  `json:"recommendations_error,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Stage2Pipeline runs tagger -> summarizer -> recommender over a collection
// of core-processed reviews.
//
// Dependency policy: the steps run strictly in order and a step only runs
// if every step before it succeeded. A failed step keeps the results the
// earlier steps already produced (each has independent business value) and
// marks the remaining sections skipped. The summarizer and recommender
// consume the tag report as prompt context, so running them after a tagging
// failure would produce analysis inconsistent with the tags the caller sees.
type Stage2Pipeline struct {
	tagger      agents.Tagger
	summarizer  agents.Summarizer
	recommender agents.Recommender
	logger      log.Logger
}

func NewStage2Pipeline(tagger agents.Tagger, summarizer agents.Summarizer, recommender agents.Recommender, logger log.Logger) *Stage2Pipeline {
	return &Stage2Pipeline{
		tagger:      tagger,
		summarizer:  summarizer,
		recommender: recommender,
		logger:      logger,
	}
}

// Run executes the analytics chain over already-filtered review inputs.
func (p *Stage2Pipeline) Run(ctx context.Context, reviews []agents.ReviewInput) *AnalysisResult {
	result := &AnalysisResult{
		EligibleReviews:       len(reviews),
		TagsStatus:            models.SectionSkipped,
		SummaryStatus:         models.SectionSkipped,
		RecommendationsStatus: models.SectionSkipped,
		GeneratedAt:           time.Now().UTC(),
	}

	tags, err := p.tagger.GenerateTags(ctx, reviews)
	if err != nil {
		result.TagsStatus = models.SectionFailed
		result.TagsError = err.Error()
		p.logger.Warn().Str("kind", string(agents.KindOf(err))).Err(err).Msg("tagging failed, stopping analytics chain")
		return result
	}
	result.Tags = &tags
	result.TagsStatus = models.SectionOK

	summary, err := p.summarizer.Summarize(ctx, reviews, &tags)
	if err != nil {
		result.SummaryStatus = models.SectionFailed
		result.SummaryError = err.Error()
		p.logger.Warn().Str("kind", string(agents.KindOf(err))).Err(err).Msg("summarization failed, stopping analytics chain")
		return result
	}
	result.Summary = summary.Text
	result.SummaryStatus = models.SectionOK

	recommendations, err := p.recommender.Recommend(ctx, reviews, &tags)
	if err != nil {
		result.RecommendationsStatus = models.SectionFailed
		result.RecommendationsError = err.Error()
		p.logger.Warn().Str("kind", string(agents.KindOf(err))).Err(err).Msg("recommendation failed")
		return result
	}
	result.Recommendations = recommendations.Items
	result.RecommendationsStatus = models.SectionOK

	p.logger.Info().Int("reviews", len(reviews)).Msg("analytics generated")

	return result
}
