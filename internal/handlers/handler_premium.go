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

// premiumHandler serves the derived premium tier of a couple account.
type premiumHandler struct {
	premiumService portssvc.PremiumSvcFacade
}

func newPremiumHandler(ps portssvc.PremiumSvcFacade) *premiumHandler {
	return &premiumHandler{premiumService: ps}
}

// RegisterPremiumRoutes registers the premium status routes.
func RegisterPremiumRoutes(rg *gin.RouterGroup, premiumService portssvc.PremiumSvcFacade) {
	h := newPremiumHandler(premiumService)

	premium := rg.Group("/accounts/:id/premium")
	{
		premium.GET("", h.getPremiumStatus)
		premium.POST("/usage", h.trackFeatureUsage)
	}
}

// getPremiumStatus godoc
// @Summary Get premium status
// @Description Reports the account's derived tier and feature flags; pass ?feature= to check one feature's availability
// @Tags premium
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   feature query string false "Feature name to check"
// @Success 200 {object} dto.PremiumStatusResponse
// @Failure 400 {object} map[string]string "Unknown feature name"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/premium [get]
func (h *premiumHandler) getPremiumStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.premiumService.GetPremiumStatus(c.Request.Context(), accountID, loggedInUserID, c.Query("feature"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get premium status", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve premium status"})
		}
		return
	}

	c.JSON(http.StatusOK, status)
}

// trackFeatureUsage godoc
// @Summary Track quota-limited feature usage
// @Description Checks a usage count against the tier's quota for the feature
// @Tags premium
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   usage body dto.FeatureUsageRequest true "Feature and current count"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Quota exhausted"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/premium/usage [post]
func (h *premiumHandler) trackFeatureUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.FeatureUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TrackFeatureUsage", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	err := h.premiumService.TrackFeatureUsage(c.Request.Context(), accountID, loggedInUserID, req.Feature, req.CurrentCount)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("Feature quota exhausted", slog.String("account_id", accountID), slog.String("feature", req.Feature))
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to track feature usage", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track feature usage"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
