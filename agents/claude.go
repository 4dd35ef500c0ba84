package agents

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phuslu/log"

	"review-insight/config"
)

type claudeModel struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	logger  log.Logger
}

func newClaudeModel(cfg config.LLMConfig, logger log.Logger) (*claudeModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required (set ANTHROPIC_API_KEY or llm.apiKey)")
	}

	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	logger.Info().Str("model", model).Msg("claude text model initialized")

	return &claudeModel{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   model,
		timeout: cfg.ParseTimeout(),
		logger:  logger,
	}, nil
}

func (m *claudeModel) Name() string {
	return "claude/" + m.model
}

func (m *claudeModel) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	if out.Len() == 0 {
		return "", errors.New("no text generated")
	}
	return out.String(), nil
}
