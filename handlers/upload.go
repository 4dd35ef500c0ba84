package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"review-insight/models"
)

// Upload accepts a CSV of reviews, creates a batch and runs core
// processing over it. The only required column is "text"; "title",
// "rating", "reviewer_name", "hotel", "source" and "date" (2006-01-02)
// are picked up when present.
func (h *Handler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "no CSV file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		fail(c, http.StatusBadRequest, "file must be a CSV")
		return
	}

	batchName := c.PostForm("name")
	if batchName == "" {
		batchName = header.Filename
	}

	batch := models.ReviewBatch{
		ID:         uuid.NewString(),
		Name:       batchName,
		SourceFile: header.Filename,
		Status:     models.BatchProcessing,
	}

	reviews, err := parseReviewsCSV(file, batch.ID)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(reviews) == 0 {
		fail(c, http.StatusBadRequest, "CSV contains no reviews")
		return
	}
	batch.TotalReviews = len(reviews)

	ctx := c.Request.Context()
	if err := h.store.CreateBatch(ctx, &batch); err != nil {
		h.logger.Error().Err(err).Msg("create batch failed")
		fail(c, http.StatusInternalServerError, "could not create batch")
		return
	}
	if err := h.store.CreateReviews(ctx, reviews); err != nil {
		h.logger.Error().Err(err).Msg("create reviews failed")
		fail(c, http.StatusInternalServerError, "could not store reviews")
		return
	}

	outcome := h.orch.ProcessBatch(ctx, reviews)

	status := models.BatchCompleted
	if outcome.Failed > 0 {
		status = models.BatchPartial
	}
	if err := h.store.UpdateBatchProgress(ctx, batch.ID, outcome.Succeeded, outcome.Failed, status); err != nil {
		h.logger.Error().Err(err).Msg("update batch progress failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   fmt.Sprintf("uploaded and processed %d of %d reviews", outcome.Succeeded, outcome.Total),
		"batch_id":  batch.ID,
		"total":     outcome.Total,
		"processed": outcome.Succeeded,
		"failed":    outcome.Failed,
	})
}

func parseReviewsCSV(r io.Reader, batchID string) ([]models.Review, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	columns := make(map[string]int, len(head))
	for i, name := range head {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["text"]; !ok {
		return nil, fmt.Errorf("CSV is missing the required \"text\" column")
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var reviews []models.Review
	for position := 0; ; position++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", position+2, err)
		}

		text := field(record, "text")
		if text == "" {
			continue
		}

		review := models.Review{
			ID:           uuid.NewString(),
			BatchID:      batchID,
			Position:     position,
			Text:         text,
			Title:        field(record, "title"),
			ReviewerName: field(record, "reviewer_name"),
			Hotel:        field(record, "hotel"),
			Source:       field(record, "source"),
		}

		if raw := field(record, "rating"); raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				review.OriginalRating = rating
			}
		}
		if raw := field(record, "date"); raw != "" {
			if date, err := time.Parse("2006-01-02", raw); err == nil {
				review.DatePosted = &date
			}
		}

		reviews = append(reviews, review)
	}

	return reviews, nil
}
