package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"review-insight/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides all persistence the handlers and the orchestrator need.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateBatch(ctx context.Context, batch *models.ReviewBatch) error {
	return s.db.WithContext(ctx).Create(batch).Error
}

func (s *Store) CreateReviews(ctx context.Context, reviews []models.Review) error {
	if len(reviews) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&reviews).Error
}

func (s *Store) Review(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Store) Batch(ctx context.Context, id string) (*models.ReviewBatch, error) {
	var batch models.ReviewBatch
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// ReviewsByBatch loads a batch's reviews in upload order.
func (s *Store) ReviewsByBatch(ctx context.Context, batchID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("position ASC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Store) ReviewsByIDs(ctx context.Context, ids []string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	// Keep the caller's order; gorm returns rows in storage order.
	byID := make(map[string]models.Review, len(reviews))
	for _, r := range reviews {
		byID[r.ID] = r
	}
	ordered := make([]models.Review, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: review %s", ErrNotFound, id)
		}
		ordered = append(ordered, r)
	}
	return ordered, nil
}

// SaveAnalysis commits the four AI fields together with the processed flag.
// Nothing else on the row is touched, so a reprocessing run overwrites
// exactly the fields the pipeline owns.
func (s *Store) SaveAnalysis(ctx context.Context, review *models.Review) error {
	return s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", review.ID).
		Select("sentiment", "confidence", "ai_score", "title", "processed", "processing_error").
		Updates(map[string]interface{}{
			"sentiment":        review.Sentiment,
			"confidence":       review.Confidence,
			"ai_score":         review.AIScore,
			"title":            review.Title,
			"processed":        true,
			"processing_error": "",
		}).Error
}

// SaveFailure records why processing failed without touching the AI fields.
func (s *Store) SaveFailure(ctx context.Context, reviewID, message string) error {
	return s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("processing_error", message).Error
}

// UpdateBatchProgress refreshes a batch's counters after a processing run.
func (s *Store) UpdateBatchProgress(ctx context.Context, batchID string, processed, failed int, status string) error {
	return s.db.WithContext(ctx).
		Model(&models.ReviewBatch{}).
		Where("id = ?", batchID).
		Updates(map[string]interface{}{
			"processed_reviews": processed,
			"failed_reviews":    failed,
			"status":            status,
		}).Error
}

func (s *Store) SaveReport(ctx context.Context, report *models.AnalysisReport) error {
	return s.db.WithContext(ctx).Create(report).Error
}

func (s *Store) LatestReport(ctx context.Context, batchID string) (*models.AnalysisReport, error) {
	var report models.AnalysisReport
	err := s.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("generated_at DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ReviewFilter narrows dashboard listings.
type ReviewFilter struct {
	Hotel     string
	Sentiment string
	MinScore  float64
	Processed *bool
	Limit     int
}

func (s *Store) ListReviews(ctx context.Context, filter ReviewFilter) ([]models.Review, error) {
	query := s.db.WithContext(ctx).Model(&models.Review{})

	if filter.Hotel != "" {
		query = query.Where("hotel = ?", filter.Hotel)
	}
	if filter.Sentiment != "" {
		query = query.Where("sentiment = ?", filter.Sentiment)
	}
	if filter.MinScore > 0 {
		query = query.Where("ai_score >= ?", filter.MinScore)
	}
	if filter.Processed != nil {
		query = query.Where("processed = ?", *filter.Processed)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var reviews []models.Review
	err := query.Order("created_at DESC").Limit(limit).Find(&reviews).Error
	return reviews, err
}

// DashboardStats are the aggregates the dashboard widgets render.
type DashboardStats struct {
	Total         int64   `json:"total"`
	Processed     int64   `json:"processed"`
	Pending       int64   `json:"pending"`
	Positive      int64   `json:"positive"`
	Neutral       int64   `json:"neutral"`
	Negative      int64   `json:"negative"`
	AvgScore      float64 `json:"avg_score"`
	AvgConfidence float64 `json:"avg_confidence"`
	Hotels        int64   `json:"hotels"`
}

func (s *Store) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&models.Review{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	db.Model(&models.Review{}).Where("processed = ?", true).Count(&stats.Processed)
	stats.Pending = stats.Total - stats.Processed

	db.Model(&models.Review{}).Where("sentiment = ?", models.SentimentPositive).Count(&stats.Positive)
	db.Model(&models.Review{}).Where("sentiment = ?", models.SentimentNeutral).Count(&stats.Neutral)
	db.Model(&models.Review{}).Where("sentiment = ?", models.SentimentNegative).Count(&stats.Negative)

	db.Model(&models.Review{}).Where("processed = ?", true).Select("COALESCE(AVG(ai_score), 0)").Scan(&stats.AvgScore)
	db.Model(&models.Review{}).Where("processed = ?", true).Select("COALESCE(AVG(confidence), 0)").Scan(&stats.AvgConfidence)
	db.Model(&models.Review{}).Distinct("hotel").Count(&stats.Hotels)

	return &stats, nil
}
