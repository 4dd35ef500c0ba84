package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"review-insight/agents"
	"review-insight/database"
	"review-insight/models"
	"review-insight/orchestrator"
)

// GenerateAnalytics runs the analytics pipeline over a batch, persists the
// report and returns it. Partial results come back with per-section
// statuses so the dashboard can tell "skipped" from "failed".
func (h *Handler) GenerateAnalytics(c *gin.Context) {
	batchID := c.Param("batch_id")
	ctx := c.Request.Context()

	if _, err := h.store.Batch(ctx, batchID); errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "batch not found")
		return
	} else if err != nil {
		h.logger.Error().Err(err).Msg("load batch failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}

	reviews, err := h.store.ReviewsByBatch(ctx, batchID)
	if err != nil {
		h.logger.Error().Err(err).Msg("load batch reviews failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}

	result, err := h.orch.GenerateAnalytics(ctx, reviews)
	if err != nil {
		if agents.KindOf(err) == agents.KindValidation {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("analytics generation failed")
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := buildReport(batchID, result)
	if err != nil {
		h.logger.Error().Err(err).Msg("serialize analytics report failed")
		fail(c, http.StatusInternalServerError, "could not serialize report")
		return
	}
	if err := h.store.SaveReport(ctx, report); err != nil {
		h.logger.Error().Err(err).Msg("save analytics report failed")
		fail(c, http.StatusInternalServerError, "could not save report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"report_id": report.ID,
		"batch_id":  batchID,
		"analytics": result,
	})
}

// GetAnalytics returns the most recent persisted report for a batch.
func (h *Handler) GetAnalytics(c *gin.Context) {
	batchID := c.Param("batch_id")

	report, err := h.store.LatestReport(c.Request.Context(), batchID)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "no analytics report for this batch")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load analytics report failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

func buildReport(batchID string, result *orchestrator.AnalysisResult) (*models.AnalysisReport, error) {
	report := &models.AnalysisReport{
		ID:                    uuid.NewString(),
		BatchID:               batchID,
		EligibleReviews:       result.EligibleReviews,
		ExcludedReviews:       result.ExcludedReviews,
		TagsStatus:            result.TagsStatus,
		TagsError:             result.TagsError,
		Summary:               result.Summary,
		SummaryStatus:         result.SummaryStatus,
		SummaryError:          result.SummaryError,
		RecommendationsStatus: result.RecommendationsStatus,
		RecommendationsError:  result.RecommendationsError,
		GeneratedAt:           result.GeneratedAt,
	}

	if result.Tags != nil {
		raw, err := json.Marshal(result.Tags)
		if err != nil {
			return nil, err
		}
		report.TagsJSON = string(raw)
	}
	if len(result.Recommendations) > 0 {
		raw, err := json.Marshal(result.Recommendations)
		if err != nil {
			return nil, err
		}
		report.RecommendationsJSON = string(raw)
	}

	return report, nil
}
