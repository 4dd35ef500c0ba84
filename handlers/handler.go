// Package handlers exposes the orchestrator's operations as JSON endpoints.
// Every response carries the {"success": bool, ...} envelope the dashboard
// scripts expect.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"

	"review-insight/database"
	"review-insight/models"
	"review-insight/orchestrator"
)

// Orchestrator is the processing surface the web layer drives.
type Orchestrator interface {
	ProcessReview(ctx context.Context, review *models.Review) orchestrator.Outcome
	ProcessBatch(ctx context.Context, reviews []models.Review) orchestrator.BatchOutcome
	GenerateAnalytics(ctx context.Context, reviews []models.Review) (*orchestrator.AnalysisResult, error)
	AgentStatus() map[string]orchestrator.AgentStatus
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	store  *database.Store
	orch   Orchestrator
	logger log.Logger
}

func New(store *database.Store, orch Orchestrator, logger log.Logger) *Handler {
	return &Handler{store: store, orch: orch, logger: logger}
}

// Register wires all API routes onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/upload", h.Upload)
		api.GET("/reviews", h.ListReviews)
		api.POST("/reviews/:review_id/process", h.ProcessReview)
		api.POST("/process-reviews", h.ProcessReviews)
		api.POST("/batches/:batch_id/analytics", h.GenerateAnalytics)
		api.GET("/batches/:batch_id/analytics", h.GetAnalytics)
		api.GET("/agents/status", h.AgentStatus)
		api.GET("/stats", h.Stats)
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
