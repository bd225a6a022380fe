package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tandemfin/couple_finance_app/internal/apperrors"
	portssvc "github.com/tandemfin/couple_finance_app/internal/core/ports/services"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/middleware"
)

// statsHandler serves the settlement/stats view of a couple account.
type statsHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newStatsHandler(ss portssvc.SettlementSvcFacade) *statsHandler {
	return &statsHandler{settlementService: ss}
}

// RegisterStatsRoutes registers the couple stats route.
func RegisterStatsRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newStatsHandler(settlementService)
	rg.GET("/accounts/:id/stats", h.getCoupleStats)
}

// getCoupleStats godoc
// @Summary Get couple settlement stats
// @Description Computes totals, expected vs actual contributions, balance and the who-owes decision over an optional date range
// @Tags stats
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   from query string false "Range start (YYYY-MM-DD)"
// @Param   to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.CoupleStatsResult
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Settings incomplete for the configured model"
// @Security BearerAuth
// @Router /accounts/{id}/stats [get]
func (h *statsHandler) getCoupleStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.StatsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetCoupleStats", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.settlementService.GetCoupleStats(c.Request.Context(), accountID, loggedInUserID, params.From, params.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrInvalidState) {
			logger.Warn("Settings incomplete for stats", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute couple stats", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}
