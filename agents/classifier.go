package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/phuslu/log"
)

// roberta sentiment heads label their classes LABEL_0..LABEL_2; other
// checkpoints use plain names.
var sentimentLabels = map[string]string{
	"LABEL_0":  "negative",
	"LABEL_1":  "neutral",
	"LABEL_2":  "positive",
	"NEGATIVE": "negative",
	"NEUTRAL":  "neutral",
	"POSITIVE": "positive",
}

// SentimentClassifier invokes the hosted sentiment model.
type SentimentClassifier struct {
	client *HFClient
	model  string
	logger log.Logger
}

func NewSentimentClassifier(client *HFClient, model string, logger log.Logger) *SentimentClassifier {
	return &SentimentClassifier{client: client, model: model, logger: logger}
}

func (c *SentimentClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	const agent = "classifier"

	if strings.TrimSpace(text) == "" {
		return Classification{}, validationError(agent, "review text is empty")
	}

	raw, callErr := c.client.predict(ctx, agent, c.model, map[string]string{"inputs": text})
	if callErr != nil {
		return Classification{}, callErr
	}

	predictions, decErr := decodePredictions(agent, raw)
	if decErr != nil {
		return Classification{}, decErr
	}

	best := predictions[0]
	for _, p := range predictions[1:] {
		if p.Score > best.Score {
			best = p
		}
	}

	sentiment, ok := sentimentLabels[strings.ToUpper(best.Label)]
	if !ok {
		return Classification{}, newError(agent, KindInvalidResponse, fmt.Errorf("unknown sentiment label %q", best.Label))
	}

	c.logger.Debug().Str("sentiment", sentiment).Float64("confidence", best.Score).Msg("review classified")

	return Classification{Sentiment: sentiment, Confidence: best.Score}, nil
}
