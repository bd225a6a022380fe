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

// coupleSettingsHandler handles the settings aggregate of a couple account.
type coupleSettingsHandler struct {
	settingsService portssvc.CoupleSettingsSvcFacade
}

func newCoupleSettingsHandler(cs portssvc.CoupleSettingsSvcFacade) *coupleSettingsHandler {
	return &coupleSettingsHandler{settingsService: cs}
}

// RegisterCoupleSettingsRoutes registers routes for couple settings.
func RegisterCoupleSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.CoupleSettingsSvcFacade) {
	h := newCoupleSettingsHandler(settingsService)

	settings := rg.Group("/accounts/:id/settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.updateSettings)
		settings.POST("/accept-invitation", h.acceptInvitation)
	}
}

// getSettings godoc
// @Summary Get couple settings
// @Description Retrieves the settings document for a couple account. Members only.
// @Tags couple-settings
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.CoupleSettingsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or settings not found"
// @Security BearerAuth
// @Router /accounts/{id}/settings [get]
func (h *coupleSettingsHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), accountID, loggedInUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get couple settings", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCoupleSettingsResponse(settings))
}

// updateSettings godoc
// @Summary Update couple settings
// @Description Validates and applies a settings update, appending audit history for every tracked change
// @Tags couple-settings
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   settings body dto.UpdateCoupleSettingsRequest true "Settings to apply"
// @Success 200 {object} dto.CoupleSettingsResponse
// @Failure 400 {object} map[string]string "Invalid input (e.g. percentages not summing to 100)"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or settings not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Security BearerAuth
// @Router /accounts/{id}/settings [put]
func (h *coupleSettingsHandler) updateSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateCoupleSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), accountID, loggedInUserID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating settings", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Settings were modified concurrently, retry"})
		} else {
			logger.Error("Failed to update couple settings", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		}
		return
	}

	logger.Info("Couple settings updated", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToCoupleSettingsResponse(settings))
}

// acceptInvitation godoc
// @Summary Accept the couple invitation
// @Description Records the caller's acceptance. The second distinct acceptor completes the couple.
// @Tags couple-settings
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.CoupleSettingsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or settings not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Security BearerAuth
// @Router /accounts/{id}/settings/accept-invitation [post]
func (h *coupleSettingsHandler) acceptInvitation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settings, err := h.settingsService.AcceptInvitation(c.Request.Context(), accountID, loggedInUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Settings were modified concurrently, retry"})
		} else {
			logger.Error("Failed to accept invitation", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		}
		return
	}

	logger.Info("Invitation accepted", slog.String("account_id", accountID), slog.String("acceptor_user_id", loggedInUserID))
	c.JSON(http.StatusOK, dto.ToCoupleSettingsResponse(settings))
}
