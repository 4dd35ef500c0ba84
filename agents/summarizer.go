package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/phuslu/log"
)

// summarizerCharLimit caps the review text embedded in one prompt.
const summarizerCharLimit = 4000

// LLMSummarizer writes an executive summary over a review collection. When
// a tag report is available its main issues are threaded in as context.
type LLMSummarizer struct {
	model  TextModel
	logger log.Logger
}

func NewLLMSummarizer(model TextModel, logger log.Logger) *LLMSummarizer {
	return &LLMSummarizer{model: model, logger: logger}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, reviews []ReviewInput, tags *TagReport) (Summary, error) {
	const agent = "summarizer"

	if len(reviews) == 0 {
		return Summary{}, validationError(agent, "no reviews to summarize")
	}

	var sb strings.Builder
	for _, r := range reviews {
		line := fmt.Sprintf("[%s, %.1f] %s\n", r.Sentiment, r.Score, r.Text)
		if sb.Len()+len(line) > summarizerCharLimit {
			// A single oversized review still has to contribute something.
			if sb.Len() == 0 {
				sb.WriteString(truncate(line, summarizerCharLimit))
			}
			break
		}
		sb.WriteString(line)
	}

	tagContext := ""
	if tags != nil && len(tags.MainIssues) > 0 {
		tagContext = fmt.Sprintf("\nTopic analysis already flagged these issues: %s.\n", strings.Join(tags.MainIssues, "; "))
	}

	prompt := fmt.Sprintf(`Analyze these %d hotel reviews and write a concise business summary covering:

1. Overall guest satisfaction level
2. Main positive aspects mentioned
3. Common complaints or issues
4. Key actionable insights for management
%s
Keep it professional and concise (2-3 paragraphs). Respond with the summary only.

Reviews:
%s`, len(reviews), tagContext, sb.String())

	out, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return Summary{}, classifyCallError(agent, err)
	}

	text := strings.TrimSpace(stripFences(out))
	if text == "" {
		return Summary{}, newError(agent, KindInvalidResponse, fmt.Errorf("model returned empty summary"))
	}

	s.logger.Debug().Int("length", len(text)).Msg("summary generated")

	return Summary{Text: text}, nil
}
