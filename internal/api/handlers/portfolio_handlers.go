package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-service/folio_service/internal/domain/services/portfolio"
	"github.com/folio-service/folio_service/pkg/logger"
)

// PortfolioHandler handles portfolio valuation and analysis endpoints
type PortfolioHandler struct {
	portfolio *portfolio.Service
	logger    *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioSvc *portfolio.Service, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolioSvc, logger: log}
}

// Summary valuates the caller's whole portfolio. Unresolvable prices appear
// as per-asset failure reasons, never as a request failure.
func (h *PortfolioHandler) Summary(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	overview, err := h.portfolio.Overview(c.Request.Context(), uid)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Assets lists the caller's positions enriched with current prices
func (h *PortfolioHandler) Assets(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	overview, err := h.portfolio.Overview(c.Request.Context(), uid)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": overview.Assets})
}

// Analyze returns the caller's portfolio risk assessment
func (h *PortfolioHandler) Analyze(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	assessment, err := h.portfolio.Analyze(c.Request.Context(), uid)
	if err != nil {
		respondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}
