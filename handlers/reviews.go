package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review-insight/database"
	"review-insight/models"
)

// ProcessReview runs core processing for a single review. Re-running an
// already processed review overwrites its AI fields.
func (h *Handler) ProcessReview(c *gin.Context) {
	reviewID := c.Param("review_id")

	review, err := h.store.Review(c.Request.Context(), reviewID)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "review not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load review failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}

	outcome := h.orch.ProcessReview(c.Request.Context(), review)
	if !outcome.Done() {
		c.JSON(http.StatusOK, gin.H{
			"success":    false,
			"error":      outcome.Error,
			"error_kind": outcome.ErrorKind,
			"outcome":    outcome,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"outcome": outcome,
		"review":  review,
	})
}

type processBatchRequest struct {
	BatchID   string   `json:"batch_id"`
	ReviewIDs []string `json:"review_ids"`
}

// ProcessReviews runs core processing over a batch or an explicit review
// list. Outcomes come back in input order; one review's failure does not
// abort the others.
func (h *Handler) ProcessReviews(c *gin.Context) {
	var req processBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BatchID == "" && len(req.ReviewIDs) == 0 {
		fail(c, http.StatusBadRequest, "batch_id or review_ids is required")
		return
	}

	ctx := c.Request.Context()

	var (
		reviews []models.Review
		err     error
	)
	if req.BatchID != "" {
		reviews, err = h.store.ReviewsByBatch(ctx, req.BatchID)
	} else {
		reviews, err = h.store.ReviewsByIDs(ctx, req.ReviewIDs)
	}
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load reviews failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}
	if len(reviews) == 0 {
		fail(c, http.StatusNotFound, "no reviews to process")
		return
	}

	outcome := h.orch.ProcessBatch(ctx, reviews)

	if req.BatchID != "" {
		status := models.BatchCompleted
		if outcome.Failed > 0 {
			status = models.BatchPartial
		}
		if err := h.store.UpdateBatchProgress(ctx, req.BatchID, outcome.Succeeded, outcome.Failed, status); err != nil {
			h.logger.Error().Err(err).Msg("update batch progress failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"total":     outcome.Total,
		"succeeded": outcome.Succeeded,
		"failed":    outcome.Failed,
		"outcomes":  outcome.Outcomes,
	})
}

// ListReviews serves filtered review listings for the dashboard.
func (h *Handler) ListReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	minScore, _ := strconv.ParseFloat(c.DefaultQuery("min_score", "0"), 64)

	filter := database.ReviewFilter{
		Hotel:     c.Query("hotel"),
		Sentiment: c.Query("sentiment"),
		MinScore:  minScore,
		Limit:     limit,
	}
	if raw := c.Query("processed"); raw != "" {
		processed := raw == "true" || raw == "1"
		filter.Processed = &processed
	}

	reviews, err := h.store.ListReviews(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("list reviews failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}
