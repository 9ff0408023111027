package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "feastly/internal/errors"
	"feastly/internal/services"
)

// SummaryHandler handles budget summary requests.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetSummary handles budget summary aggregation over a period.
// @Summary     Get budget summary
// @Description Aggregate spending, savings, and category totals over a trailing period
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Aggregation period: week, month, or year (default month)"
// @Success     200 {object} services.BudgetSummary "Budget summary"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period := services.SummaryPeriod(c.DefaultQuery("period", string(services.PeriodMonth)))
	switch period {
	case services.PeriodWeek, services.PeriodMonth, services.PeriodYear:
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "period must be week, month, or year"))
		return
	}

	summary, err := h.summaryService.GetBudgetSummary(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
