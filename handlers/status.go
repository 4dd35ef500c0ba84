package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AgentStatus serves the health widget's per-agent liveness map.
func (h *Handler) AgentStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"agents":  h.orch.AgentStatus(),
	})
}

// Stats serves the dashboard aggregates.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("load stats failed")
		fail(c, http.StatusInternalServerError, "database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
