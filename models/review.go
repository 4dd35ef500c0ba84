package models

import "time"

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Review is one guest review. The AI fields (Sentiment, Confidence, AIScore
// and, when not externally supplied, Title) are written together by a
// successful core-processing run and stay empty otherwise.
type Review struct {
	ID       string `json:"id" gorm:"primaryKey"`
	BatchID  string `json:"batch_id" gorm:"index"`
	Position int    `json:"position"`

	Hotel          string     `json:"hotel"`
	Source         string     `json:"source"`
	ReviewerName   string     `json:"reviewer_name"`
	Text           string     `json:"text"`
	Title          string     `json:"title"`
	OriginalRating float64    `json:"original_rating"`
	DatePosted     *time.Time `json:"date_posted"`

	Sentiment  string  `json:"sentiment" gorm:"index"`
	Confidence float64 `json:"confidence"`
	AIScore    float64 `json:"ai_score"`

	Processed       bool   `json:"processed" gorm:"index"`
	ProcessingError string `json:"processing_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Batch statuses.
const (
	BatchPending    = "pending"
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchPartial    = "partial"
)

// ReviewBatch is a named, ordered set of reviews uploaded together.
// Reviews reference the batch by BatchID; the batch does not own them.
type ReviewBatch struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	SourceFile string `json:"source_file"`

	TotalReviews     int    `json:"total_reviews"`
	ProcessedReviews int    `json:"processed_reviews"`
	FailedReviews    int    `json:"failed_reviews"`
	Status           string `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
