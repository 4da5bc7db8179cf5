package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-service/folio_service/internal/workers/revaluation"
	"github.com/folio-service/folio_service/pkg/logger"
)

// RevaluationHandler exposes the scheduled revaluation job as an internal
// endpoint, guarded by the cron secret
type RevaluationHandler struct {
	job    *revaluation.Job
	logger *logger.Logger
}

// NewRevaluationHandler creates a new revaluation handler
func NewRevaluationHandler(job *revaluation.Job, log *logger.Logger) *RevaluationHandler {
	return &RevaluationHandler{job: job, logger: log}
}

// Run triggers one revaluation pass and returns its stats
func (h *RevaluationHandler) Run(c *gin.Context) {
	stats, err := h.job.Run(c.Request.Context())
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
