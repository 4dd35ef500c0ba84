package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REVIEW_INSIGHT_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "reviews.db", cfg.Database.Path)
	assert.Equal(t, "https://api-inference.huggingface.co/models", cfg.HuggingFace.BaseURL)
	assert.Equal(t, "cardiffnlp/twitter-roberta-base-sentiment-latest", cfg.HuggingFace.SentimentModel)
	assert.Equal(t, "nlptown/bert-base-multilingual-uncased-sentiment", cfg.HuggingFace.ScoringModel)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9000"
database:
  path: /tmp/test-reviews.db
huggingface:
  timeout: 5s
  requestsPerSecond: 2
llm:
  provider: claude
  model: claude-sonnet-4-20250514
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("REVIEW_INSIGHT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/test-reviews.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.HuggingFace.ParseTimeout())
	assert.Equal(t, 2.0, cfg.HuggingFace.RequestsPerSecond)
	assert.Equal(t, "claude", cfg.LLM.Provider)
	// file values merge over defaults
	assert.Equal(t, "cardiffnlp/twitter-roberta-base-sentiment-latest", cfg.HuggingFace.SentimentModel)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("REVIEW_INSIGHT_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REVIEW_INSIGHT_CONFIG", "")
	t.Setenv("REVIEW_INSIGHT_ADDR", ":7070")
	t.Setenv("REVIEW_INSIGHT_DB", "override.db")
	t.Setenv("HUGGINGFACE_API_KEY", "hf-key")
	t.Setenv("REVIEW_INSIGHT_LLM_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "claude-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "override.db", cfg.Database.Path)
	assert.Equal(t, "hf-key", cfg.HuggingFace.APIKey)
	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "claude-key", cfg.LLM.APIKey)
}

func TestGeminiKeyPickedForDefaultProvider(t *testing.T) {
	t.Setenv("REVIEW_INSIGHT_CONFIG", "")
	t.Setenv("REVIEW_INSIGHT_LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gm-key", cfg.LLM.APIKey)
}

func TestParseTimeoutFallbacks(t *testing.T) {
	assert.Equal(t, 15*time.Second, HuggingFaceConfig{}.ParseTimeout())
	assert.Equal(t, 15*time.Second, HuggingFaceConfig{Timeout: "bogus"}.ParseTimeout())
	assert.Equal(t, 500*time.Millisecond, HuggingFaceConfig{Timeout: "500ms"}.ParseTimeout())

	assert.Equal(t, 30*time.Second, LLMConfig{}.ParseTimeout())
	assert.Equal(t, time.Minute, LLMConfig{Timeout: "1m"}.ParseTimeout())
}
