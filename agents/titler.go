package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/phuslu/log"
)

const titleWordLimit = 6

// LLMTitleGenerator produces a short review title from the text and the
// sentiment the classifier assigned. Externally supplied titles are handled
// upstream; this invoker is only consulted when no title exists.
type LLMTitleGenerator struct {
	model  TextModel
	logger log.Logger
}

func NewLLMTitleGenerator(model TextModel, logger log.Logger) *LLMTitleGenerator {
	return &LLMTitleGenerator{model: model, logger: logger}
}

func (g *LLMTitleGenerator) GenerateTitle(ctx context.Context, text, sentiment string) (Title, error) {
	const agent = "title_generator"

	if strings.TrimSpace(text) == "" {
		return Title{}, validationError(agent, "review text is empty")
	}

	prompt := fmt.Sprintf(`Write a title for the following %s hotel review.

Rules:
- at most %d words
- no quotes, no trailing punctuation
- capture the review's main point

Review: %s

Respond with the title only.`, sentiment, titleWordLimit, truncate(text, 2000))

	out, err := g.model.Generate(ctx, prompt)
	if err != nil {
		return Title{}, classifyCallError(agent, err)
	}

	title, truncated := normalizeTitle(out)
	if title == "" {
		return Title{}, newError(agent, KindInvalidResponse, fmt.Errorf("model returned no usable title: %q", out))
	}

	confidence := 0.95
	if truncated {
		confidence = 0.75
	}

	g.logger.Debug().Str("title", title).Msg("title generated")

	return Title{Text: title, Confidence: confidence}, nil
}

// normalizeTitle strips quotes and fences, collapses whitespace and
// enforces the word limit. Returns the title and whether it was cut.
func normalizeTitle(raw string) (string, bool) {
	s := stripFences(raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `"'`)
	s = strings.TrimRight(strings.TrimSpace(s), ".!")

	words := strings.Fields(s)
	if len(words) == 0 {
		return "", false
	}
	if len(words) > titleWordLimit {
		return strings.Join(words[:titleWordLimit], " "), true
	}
	return strings.Join(words, " "), false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
