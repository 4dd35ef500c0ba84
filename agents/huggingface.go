package agents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"

	"review-insight/config"
)

// HFClient talks to the HuggingFace hosted-inference API. One client is
// shared by all inference-backed invokers so the rate limiter covers the
// whole process.
type HFClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     log.Logger
}

func NewHFClient(cfg config.HuggingFaceConfig, logger log.Logger) *HFClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &HFClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.ParseTimeout()},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// predict posts an inference payload to one hosted model and returns the
// raw JSON body. All transport faults come back as *Error.
func (c *HFClient) predict(ctx context.Context, agent, model string, payload interface{}) (json.RawMessage, *Error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyCallError(agent, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(agent, KindUnknown, err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newError(agent, KindUnknown, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyCallError(agent, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("agent", agent).
		Str("model", model).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("inference call completed")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyCallError(agent, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, newError(agent, KindRateLimited, fmt.Errorf("model %s: %s", model, excerpt(raw)))
	case resp.StatusCode != http.StatusOK:
		return nil, newError(agent, KindUnknown, fmt.Errorf("model %s returned status %d: %s", model, resp.StatusCode, excerpt(raw)))
	}

	return json.RawMessage(raw), nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		cut := 200
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// labelPrediction is one entry of the inference API's classification output.
type labelPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// decodePredictions handles the API's nested list shape ([[{label,score}]]
// for single inputs) and the flat variant some models return. An empty
// prediction list (the API emits [[]] for filtered inputs) is not a valid
// decode; callers index into the result.
func decodePredictions(agent string, raw json.RawMessage) ([]labelPrediction, *Error) {
	var nested [][]labelPrediction
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	var flat []labelPrediction
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	return nil, newError(agent, KindInvalidResponse, fmt.Errorf("unexpected inference payload: %s", excerpt(raw)))
}
