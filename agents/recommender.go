package agents

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/phuslu/log"
)

const recommenderReviewLimit = 50

// LLMRecommender turns a review collection and its tag report into a
// prioritized action list for hotel management.
type LLMRecommender struct {
	model  TextModel
	logger log.Logger
}

func NewLLMRecommender(model TextModel, logger log.Logger) *LLMRecommender {
	return &LLMRecommender{model: model, logger: logger}
}

func (r *LLMRecommender) Recommend(ctx context.Context, reviews []ReviewInput, tags *TagReport) (Recommendations, error) {
	const agent = "recommender"

	if len(reviews) == 0 {
		return Recommendations{}, validationError(agent, "no reviews to recommend on")
	}

	block, err := reviewsAsJSON(reviews, recommenderReviewLimit)
	if err != nil {
		return Recommendations{}, newError(agent, KindUnknown, err)
	}

	tagContext := ""
	if tags != nil {
		issues := strings.Join(tags.MainIssues, "; ")
		negatives := strings.Join(tags.NegativeKeywords, ", ")
		tagContext = fmt.Sprintf("\nKnown issues: %s\nNegative keywords: %s\n", issues, negatives)
	}

	prompt := fmt.Sprintf(`Based on these %d hotel reviews, produce business recommendations for hotel management.
%s
Reviews: %s

Return a JSON array ordered by priority, with exactly this element shape:
[{"priority": "high|medium|low", "area": "...", "action": "..."}]

Respond with JSON only.`, len(reviews), tagContext, block)

	out, genErr := r.model.Generate(ctx, prompt)
	if genErr != nil {
		return Recommendations{}, classifyCallError(agent, genErr)
	}

	var items []Recommendation
	if err := json.Unmarshal([]byte(stripFences(out)), &items); err != nil {
		return Recommendations{}, newError(agent, KindInvalidResponse, fmt.Errorf("parse recommendations: %w", err))
	}
	if len(items) == 0 {
		return Recommendations{}, newError(agent, KindInvalidResponse, fmt.Errorf("model returned no recommendations"))
	}

	r.logger.Debug().Int("items", len(items)).Msg("recommendations generated")

	return Recommendations{Items: items}, nil
}
