package models

import "time"

// Analytics section statuses. A section is "ok" when its model call
// succeeded, "failed" when it was attempted and errored, and "skipped"
// when an earlier section's failure stopped the chain before it ran.
const (
	SectionOK      = "ok"
	SectionFailed  = "failed"
	SectionSkipped = "skipped"
)

// AnalysisReport is a persisted analytics run over one review batch.
// Every run is a full recompute; nothing is updated incrementally.
// Structured sections are stored as serialized JSON columns.
type AnalysisReport struct {
	ID      string `json:"id" gorm:"primaryKey"`
	BatchID string `json:"batch_id" gorm:"index"`

	EligibleReviews int `json:"eligible_reviews"`
	ExcludedReviews int `json:"excluded_reviews"`

	TagsJSON   string `json:"tags_json"`
	TagsStatus string `json:"tags_status"`
	TagsError  string `json:"tags_error"`

	Summary       string `json:"summary"`
	SummaryStatus string `json:"summary_status"`
	SummaryError  string `json:"summary_error"`

	RecommendationsJSON   string `json:"recommendations_json"`
	RecommendationsStatus string `json:"recommendations_status"`
	RecommendationsError  string `json:"recommendations_error"`

	GeneratedAt time.Time `json:"generated_at"`
}
