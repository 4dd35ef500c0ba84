package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	out     string
	err     error
	prompts []string
}

func (s *stubModel) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.out, s.err
}

func (s *stubModel) Name() string { return "stub" }

var testLogger = log.Logger{Level: log.PanicLevel}

func sampleReviews() []ReviewInput {
	return []ReviewInput{
		{Text: "The staff were incredibly friendly and the room was spotless", Sentiment: "positive", Score: 4.7},
		{Text: "Noisy street and the shower was broken", Sentiment: "negative", Score: 1.8},
	}
}

func TestTitleGenerator(t *testing.T) {
	tests := []struct {
		name      string
		modelOut  string
		wantTitle string
	}{
		{
			name:      "clean title",
			modelOut:  "Friendly Staff Spotless Rooms",
			wantTitle: "Friendly Staff Spotless Rooms",
		},
		{
			name:      "quoted with trailing period",
			modelOut:  `"Great Location And Service."`,
			wantTitle: "Great Location And Service",
		},
		{
			name:      "over word limit gets cut",
			modelOut:  "An Absolutely Wonderful Stay At This Lovely Downtown Hotel",
			wantTitle: "An Absolutely Wonderful Stay At This",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titler := NewLLMTitleGenerator(&stubModel{out: tt.modelOut}, testLogger)
			title, err := titler.GenerateTitle(context.Background(), "some review text here", "positive")
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, title.Text)
			assert.LessOrEqual(t, len(strings.Fields(title.Text)), titleWordLimit)
			assert.Greater(t, title.Confidence, 0.0)
		})
	}
}

func TestTitleGeneratorModelTimeout(t *testing.T) {
	titler := NewLLMTitleGenerator(&stubModel{err: context.DeadlineExceeded}, testLogger)
	_, err := titler.GenerateTitle(context.Background(), "some review text", "neutral")
	require.Error(t, err)
	assert.Equal(t, KindTimeout, KindOf(err))
}

func TestTaggerParsesFencedJSON(t *testing.T) {
	model := &stubModel{out: "```json\n" + `{
		"positive_keywords": ["friendly", "clean"],
		"negative_keywords": ["noisy"],
		"topic_metrics": {"service": {"percentage": 85, "keywords": ["staff"], "description": "Service quality"}},
		"main_issues": ["street noise"],
		"emerging_topics": ["maintenance"]
	}` + "\n```"}

	tagger := NewLLMTagger(model, testLogger)
	report, err := tagger.GenerateTags(context.Background(), sampleReviews())
	require.NoError(t, err)
	assert.Equal(t, []string{"friendly", "clean"}, report.PositiveKeywords)
	assert.Equal(t, 85, report.TopicMetrics["service"].Percentage)
	assert.Equal(t, []string{"street noise"}, report.MainIssues)
}

func TestTaggerInvalidJSON(t *testing.T) {
	tagger := NewLLMTagger(&stubModel{out: "here are your tags: service, cleanliness"}, testLogger)
	_, err := tagger.GenerateTags(context.Background(), sampleReviews())
	require.Error(t, err)
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}

func TestTaggerEmptyInput(t *testing.T) {
	tagger := NewLLMTagger(&stubModel{}, testLogger)
	_, err := tagger.GenerateTags(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSummarizerThreadsTagContext(t *testing.T) {
	model := &stubModel{out: "Guests are broadly satisfied; street noise is the main complaint."}
	summarizer := NewLLMSummarizer(model, testLogger)

	tags := &TagReport{MainIssues: []string{"street noise"}}
	summary, err := summarizer.Summarize(context.Background(), sampleReviews(), tags)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Text)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "street noise")
}

func TestSummarizerTruncatesOversizedReview(t *testing.T) {
	model := &stubModel{out: "A very long complaint about housekeeping."}
	summarizer := NewLLMSummarizer(model, testLogger)

	long := ReviewInput{
		Text:      "housekeeping " + strings.Repeat("x", summarizerCharLimit),
		Sentiment: "negative",
		Score:     1.2,
	}
	_, err := summarizer.Summarize(context.Background(), []ReviewInput{long, sampleReviews()[0]}, nil)
	require.NoError(t, err)

	// the oversized review is cut, not dropped
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "housekeeping")
}

func TestRecommenderParsesItems(t *testing.T) {
	model := &stubModel{out: `[
		{"priority": "high", "area": "maintenance", "action": "Repair showers on the second floor"},
		{"priority": "medium", "area": "comfort", "action": "Add soundproofing to street-facing rooms"}
	]`}

	recommender := NewLLMRecommender(model, testLogger)
	recs, err := recommender.Recommend(context.Background(), sampleReviews(), &TagReport{MainIssues: []string{"broken shower"}})
	require.NoError(t, err)
	require.Len(t, recs.Items, 2)
	assert.Equal(t, "high", recs.Items[0].Priority)
}

func TestRecommenderEmptyList(t *testing.T) {
	recommender := NewLLMRecommender(&stubModel{out: "[]"}, testLogger)
	_, err := recommender.Recommend(context.Background(), sampleReviews(), nil)
	require.Error(t, err)
	assert.Equal(t, KindInvalidResponse, KindOf(err))
}
