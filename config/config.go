package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "REVIEW_INSIGHT_CONFIG"
	databasePathEnv    = "REVIEW_INSIGHT_DB"
	serverAddrEnv      = "REVIEW_INSIGHT_ADDR"
	huggingFaceKeyEnv  = "HUGGINGFACE_API_KEY"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	anthropicAPIKeyEnv = "ANTHROPIC_API_KEY"
	llmProviderEnv     = "REVIEW_INSIGHT_LLM_PROVIDER"
)

// Config holds all settings the service needs at startup.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes the sqlite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HuggingFaceConfig wires the hosted inference API used by the
// classification and scoring models. Timeout is a duration string ("15s").
type HuggingFaceConfig struct {
	BaseURL           string  `yaml:"baseUrl"`
	APIKey            string  `yaml:"apiKey"`
	Timeout           string  `yaml:"timeout"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	SentimentModel    string  `yaml:"sentimentModel"`
	ScoringModel      string  `yaml:"scoringModel"`
}

// ParseTimeout resolves the configured timeout, falling back to 15s.
func (c HuggingFaceConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// LLMConfig selects and configures the text-generation provider used by
// the title, tagging, summary and recommendation agents.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini | claude
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	Timeout  string `yaml:"timeout"`
}

// ParseTimeout resolves the configured timeout, falling back to 30s.
func (c LLMConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if REVIEW_INSIGHT_CONFIG points at a file)
// and applies environment overrides on top of built-in defaults.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(huggingFaceKeyEnv); v != "" {
		c.HuggingFace.APIKey = v
	}
	if v := os.Getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = v
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "claude":
			c.LLM.APIKey = os.Getenv(anthropicAPIKeyEnv)
		default:
			c.LLM.APIKey = os.Getenv(geminiAPIKeyEnv)
		}
	}
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8090"},
		Database: DatabaseConfig{Path: "reviews.db"},
		HuggingFace: HuggingFaceConfig{
			BaseURL:           "https://api-inference.huggingface.co/models",
			Timeout:           "15s",
			RequestsPerSecond: 5,
			SentimentModel:    "cardiffnlp/twitter-roberta-base-sentiment-latest",
			ScoringModel:      "nlptown/bert-base-multilingual-uncased-sentiment",
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "30s",
		},
		Log: LogConfig{Level: "info"},
	}
}
