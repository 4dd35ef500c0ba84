package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phuslu/log"
	"google.golang.org/genai"

	"review-insight/config"
)

type geminiModel struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  log.Logger
}

func newGeminiModel(cfg config.LLMConfig, logger log.Logger) (*geminiModel, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required (set GEMINI_API_KEY or llm.apiKey)")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	logger.Info().Str("model", model).Msg("gemini text model initialized")

	return &geminiModel{
		client:  client,
		model:   model,
		timeout: cfg.ParseTimeout(),
		logger:  logger,
	}, nil
}

func (m *geminiModel) Name() string {
	return "gemini/" + m.model
}

func (m *geminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, nil)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}

	if out.Len() == 0 {
		return "", errors.New("no text generated")
	}
	return out.String(), nil
}
