package agents

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/phuslu/log"
)

// taggerReviewLimit caps how many reviews go into one prompt.
const taggerReviewLimit = 50

// LLMTagger extracts keywords, topic metrics, main issues and emerging
// topics from a review collection.
type LLMTagger struct {
	model  TextModel
	logger log.Logger
}

func NewLLMTagger(model TextModel, logger log.Logger) *LLMTagger {
	return &LLMTagger{model: model, logger: logger}
}

func (t *LLMTagger) GenerateTags(ctx context.Context, reviews []ReviewInput) (TagReport, error) {
	const agent = "tagger"

	if len(reviews) == 0 {
		return TagReport{}, validationError(agent, "no reviews to tag")
	}

	block, err := reviewsAsJSON(reviews, taggerReviewLimit)
	if err != nil {
		return TagReport{}, newError(agent, KindUnknown, err)
	}

	prompt := fmt.Sprintf(`Analyze these %d hotel reviews and return topic analysis as JSON:

Reviews: %s

Return JSON with exactly this shape:
{
  "positive_keywords": ["..."],
  "negative_keywords": ["..."],
  "topic_metrics": {
    "service": {"percentage": 0, "keywords": ["..."], "description": "..."},
    "cleanliness": {"percentage": 0, "keywords": ["..."], "description": "..."},
    "location": {"percentage": 0, "keywords": ["..."], "description": "..."}
  },
  "main_issues": ["..."],
  "emerging_topics": ["..."]
}

Extract actual keywords from the review texts and use realistic percentages.
Respond with JSON only.`, len(reviews), block)

	out, genErr := t.model.Generate(ctx, prompt)
	if genErr != nil {
		return TagReport{}, classifyCallError(agent, genErr)
	}

	var report TagReport
	if err := json.Unmarshal([]byte(stripFences(out)), &report); err != nil {
		return TagReport{}, newError(agent, KindInvalidResponse, fmt.Errorf("parse tag report: %w", err))
	}

	t.logger.Debug().
		Int("positive_keywords", len(report.PositiveKeywords)).
		Int("negative_keywords", len(report.NegativeKeywords)).
		Int("topics", len(report.TopicMetrics)).
		Msg("tag report generated")

	return report, nil
}
