package agents

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/phuslu/log"

	"review-insight/config"
)

// TextModel is the minimal surface the LLM-backed agents need from a
// hosted text-generation provider.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewTextModel builds the configured provider.
func NewTextModel(cfg config.LLMConfig, logger log.Logger) (TextModel, error) {
	switch cfg.Provider {
	case "", "gemini":
		return newGeminiModel(cfg, logger)
	case "claude":
		return newClaudeModel(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q (want gemini or claude)", cfg.Provider)
	}
}

// stripFences removes the ```json fences LLMs like to wrap structured
// output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// reviewsAsJSON renders at most limit reviews as a compact JSON block for
// prompt embedding.
func reviewsAsJSON(reviews []ReviewInput, limit int) (string, error) {
	if len(reviews) > limit {
		reviews = reviews[:limit]
	}
	raw, err := json.Marshal(reviews)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
