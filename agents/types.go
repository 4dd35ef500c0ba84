// Package agents wraps each hosted model and LLM call behind a small
// invoker with a typed result and a normalized failure taxonomy.
package agents

import "context"

// Classification is the sentiment classifier's output.
type Classification struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Score is the review scorer's output on the 1-5 scale.
type Score struct {
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Title is the title generator's output.
type Title struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ReviewInput is what the analytics agents see of an already-processed
// review: its text plus the core-stage results.
type ReviewInput struct {
	Text      string  `json:"text"`
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// TopicMetric describes how one topic shows up across a review set.
type TopicMetric struct {
	Percentage  int      `json:"percentage"`
	Keywords    []string `json:"keywords"`
	Description string   `json:"description"`
}

// TagReport is the tagging agent's output.
type TagReport struct {
	PositiveKeywords []string               `json:"positive_keywords"`
	NegativeKeywords []string               `json:"negative_keywords"`
	TopicMetrics     map[string]TopicMetric `json:"topic_metrics"`
	MainIssues       []string               `json:"main_issues"`
	EmergingTopics   []string               `json:"emerging_topics"`
}

// Summary is the summarizer's output.
type Summary struct {
	Text string `json:"text"`
}

// Recommendation is one prioritized action item for hotel management.
type Recommendation struct {
	Priority string `json:"priority"`
	Area     string `json:"area"`
	Action   string `json:"action"`
}

// Recommendations is the recommender's output.
type Recommendations struct {
	Items []Recommendation `json:"items"`
}

// Core-stage invokers. Each is a stateless adapter around one hosted model;
// failures come back as *Error, never as a panic.
type (
	Classifier interface {
		Classify(ctx context.Context, text string) (Classification, error)
	}

	Scorer interface {
		Score(ctx context.Context, text, sentiment string) (Score, error)
	}

	TitleGenerator interface {
		GenerateTitle(ctx context.Context, text, sentiment string) (Title, error)
	}
)

// Analytics-stage invokers. They operate over a review collection; the tag
// report is threaded into the later prompts as additional context.
type (
	Tagger interface {
		GenerateTags(ctx context.Context, reviews []ReviewInput) (TagReport, error)
	}

	Summarizer interface {
		Summarize(ctx context.Context, reviews []ReviewInput, tags *TagReport) (Summary, error)
	}

	Recommender interface {
		Recommend(ctx context.Context, reviews []ReviewInput, tags *TagReport) (Recommendations, error)
	}
)
