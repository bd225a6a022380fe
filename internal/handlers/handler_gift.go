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

// giftHandler handles the concealed-gift lifecycle.
type giftHandler struct {
	giftService portssvc.GiftSvcFacade
}

func newGiftHandler(gs portssvc.GiftSvcFacade) *giftHandler {
	return &giftHandler{giftService: gs}
}

// RegisterGiftRoutes registers gift routes.
func RegisterGiftRoutes(rg *gin.RouterGroup, giftService portssvc.GiftSvcFacade) {
	h := newGiftHandler(giftService)

	gifts := rg.Group("/gifts")
	{
		gifts.POST("", h.createGift)
		gifts.POST("/:id/reveal", h.revealGift)
		gifts.PUT("/:id", h.updateGift)
		gifts.DELETE("/:id", h.deleteGift)
	}

	rg.GET("/accounts/:id/gifts", h.listMyGifts)
	rg.GET("/accounts/:id/gifts/received", h.listReceivedGifts)
}

func (h *giftHandler) respondGiftError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Gift not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Gift operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createGift godoc
// @Summary Create a concealed gift
// @Description Creates a personal expense hidden from its recipient until the reveal date. Requires gift mode.
// @Tags gifts
// @Accept  json
// @Produce  json
// @Param   gift body dto.CreateGiftRequest true "Gift details"
// @Success 201 {object} dto.GiftResponse
// @Failure 400 {object} map[string]string "Invalid input (past reveal date, recipient not the partner)"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Gift mode disabled"
// @Security BearerAuth
// @Router /gifts [post]
func (h *giftHandler) createGift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	gift, err := h.giftService.CreateGift(c.Request.Context(), loggedInUserID, req)
	if err != nil {
		h.respondGiftError(c, logger, err, "create gift")
		return
	}

	logger.Info("Gift created", slog.String("expense_id", gift.ExpenseID), slog.String("account_id", gift.AccountID))
	c.JSON(http.StatusCreated, dto.ToGiftResponse(gift))
}

// revealGift godoc
// @Summary Reveal a gift
// @Description Reveals a gift ahead of its reveal date. Creator only; revealNow also converts it to a shared expense.
// @Tags gifts
// @Accept  json
// @Produce  json
// @Param   id path string true "Gift expense ID"
// @Param   reveal body dto.RevealGiftRequest true "Reveal options"
// @Success 200 {object} dto.GiftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Gift not found"
// @Failure 422 {object} map[string]string "Already revealed"
// @Security BearerAuth
// @Router /gifts/{id}/reveal [post]
func (h *giftHandler) revealGift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	giftID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.RevealGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RevealGift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	gift, err := h.giftService.RevealGift(c.Request.Context(), giftID, loggedInUserID, req)
	if err != nil {
		h.respondGiftError(c, logger, err, "reveal gift")
		return
	}

	logger.Info("Gift revealed", slog.String("expense_id", giftID))
	c.JSON(http.StatusOK, dto.ToGiftResponse(gift))
}

// updateGift godoc
// @Summary Update an unrevealed gift
// @Tags gifts
// @Accept  json
// @Produce  json
// @Param   id path string true "Gift expense ID"
// @Param   gift body dto.UpdateGiftRequest true "Fields to update"
// @Success 200 {object} dto.GiftResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Gift not found"
// @Failure 422 {object} map[string]string "Gift already revealed"
// @Security BearerAuth
// @Router /gifts/{id} [put]
func (h *giftHandler) updateGift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	giftID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGift", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	gift, err := h.giftService.UpdateGift(c.Request.Context(), giftID, loggedInUserID, req)
	if err != nil {
		h.respondGiftError(c, logger, err, "update gift")
		return
	}

	c.JSON(http.StatusOK, dto.ToGiftResponse(gift))
}

// deleteGift godoc
// @Summary Delete an unrevealed gift
// @Tags gifts
// @Produce  json
// @Param   id path string true "Gift expense ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Gift not found"
// @Failure 422 {object} map[string]string "Gift already revealed"
// @Security BearerAuth
// @Router /gifts/{id} [delete]
func (h *giftHandler) deleteGift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	giftID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.giftService.DeleteGift(c.Request.Context(), giftID, loggedInUserID); err != nil {
		h.respondGiftError(c, logger, err, "delete gift")
		return
	}

	logger.Info("Gift deleted", slog.String("expense_id", giftID))
	c.Status(http.StatusNoContent)
}

// listMyGifts godoc
// @Summary List gifts created by the caller
// @Tags gifts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {array} dto.GiftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/gifts [get]
func (h *giftHandler) listMyGifts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	gifts, err := h.giftService.ListMyGifts(c.Request.Context(), accountID, loggedInUserID)
	if err != nil {
		h.respondGiftError(c, logger, err, "list gifts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGiftResponse(gifts))
}

// listReceivedGifts godoc
// @Summary List revealed gifts addressed to the caller
// @Tags gifts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {array} dto.GiftResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/gifts/received [get]
func (h *giftHandler) listReceivedGifts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	gifts, err := h.giftService.ListReceivedGifts(c.Request.Context(), accountID, loggedInUserID)
	if err != nil {
		h.respondGiftError(c, logger, err, "list received gifts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListGiftResponse(gifts))
}
