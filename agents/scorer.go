package agents

import (
	"context"
	"math"
	"strings"

	"github.com/phuslu/log"

	"review-insight/models"
)

// ReviewScorer invokes the hosted star-rating model and produces a 1-5
// score aligned with the sentiment the classifier already committed to.
type ReviewScorer struct {
	client *HFClient
	model  string
	logger log.Logger
}

func NewReviewScorer(client *HFClient, model string, logger log.Logger) *ReviewScorer {
	return &ReviewScorer{client: client, model: model, logger: logger}
}

func (s *ReviewScorer) Score(ctx context.Context, text, sentiment string) (Score, error) {
	const agent = "scorer"

	if strings.TrimSpace(text) == "" {
		return Score{}, validationError(agent, "review text is empty")
	}

	payload := map[string]interface{}{
		"inputs":     text,
		"parameters": map[string]bool{"return_all_scores": true},
	}
	raw, callErr := s.client.predict(ctx, agent, s.model, payload)
	if callErr != nil {
		return Score{}, callErr
	}

	predictions, decErr := decodePredictions(agent, raw)
	if decErr != nil {
		return Score{}, decErr
	}

	value, confidence := weightedScore(predictions)
	value = alignWithSentiment(value, sentiment)

	s.logger.Debug().Float64("score", value).Str("sentiment", sentiment).Msg("review scored")

	return Score{Value: value, Confidence: confidence}, nil
}

// weightedScore turns star-class probabilities into a single 1-5 value.
// The model labels its classes "1 star".."5 stars" (or LABEL_0..LABEL_4).
func weightedScore(predictions []labelPrediction) (float64, float64) {
	var total, maxProb float64
	for _, p := range predictions {
		stars := starsForLabel(p.Label)
		if stars == 0 {
			continue
		}
		total += p.Score * float64(stars)
		if p.Score > maxProb {
			maxProb = p.Score
		}
	}
	if total == 0 {
		return 3.0, 0.5
	}
	return clamp(math.Round(total*10)/10, 1.0, 5.0), maxProb
}

func starsForLabel(label string) int {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "LABEL_0"), strings.HasPrefix(upper, "1"):
		return 1
	case strings.Contains(upper, "LABEL_1"), strings.HasPrefix(upper, "2"):
		return 2
	case strings.Contains(upper, "LABEL_2"), strings.HasPrefix(upper, "3"):
		return 3
	case strings.Contains(upper, "LABEL_3"), strings.HasPrefix(upper, "4"):
		return 4
	case strings.Contains(upper, "LABEL_4"), strings.HasPrefix(upper, "5"):
		return 5
	}
	return 0
}

// alignWithSentiment keeps the stored score consistent with the stored
// sentiment: a positive review never scores below 3.5, a negative one
// never above 2.5.
func alignWithSentiment(value float64, sentiment string) float64 {
	switch sentiment {
	case models.SentimentPositive:
		return clamp(value, 3.5, 5.0)
	case models.SentimentNegative:
		return clamp(value, 1.0, 2.5)
	default:
		return value
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
