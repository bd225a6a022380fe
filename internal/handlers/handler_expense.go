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

// expenseHandler handles expense creation, context parsing and the social
// operations (comments, reactions).
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// RegisterExpenseRoutes registers expense routes.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.POST("/parse-context", h.parseContext)
		expenses.GET("/:id", h.getExpense)
		expenses.POST("/:id/comments", h.addComment)
		expenses.PUT("/:id/comments/:commentID", h.editComment)
		expenses.POST("/:id/reactions", h.addReaction)
		expenses.DELETE("/:id/reactions", h.removeReaction)
	}
}

func (h *expenseHandler) respondExpenseError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Expense operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// createExpense godoc
// @Summary Create an expense
// @Description Posts an expense. Without an explicit account ID, a context trigger in the description ("cena @pareja") routes it.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input or unroutable description"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), loggedInUserID, req)
	if err != nil {
		h.respondExpenseError(c, logger, err, "create expense")
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID), slog.String("account_id", expense.AccountID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// parseContext godoc
// @Summary Parse an expense description
// @Description Runs the free-text context parser without creating anything
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   text body dto.ParseContextRequest true "Text to parse"
// @Success 200 {object} dto.ParsedContextResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /expenses/parse-context [post]
func (h *expenseHandler) parseContext(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ParseContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ParseContext", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result := h.expenseService.ParseContext(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, dto.ParsedContextResponse{
		Context:          result.Context,
		CleanDescription: result.CleanDescription,
		Confidence:       result.Confidence,
	})
}

// getExpense godoc
// @Summary Get an expense by ID
// @Description Retrieves an expense. Unrevealed gifts stay invisible to their recipient.
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID, loggedInUserID)
	if err != nil {
		h.respondExpenseError(c, logger, err, "retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// addComment godoc
// @Summary Comment on an expense
// @Description Appends a comment. Requires the allowComments toggle; non-premium tiers have a comment quota.
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   comment body dto.AddCommentRequest true "Comment text"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Comments disabled or quota exhausted"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id}/comments [post]
func (h *expenseHandler) addComment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddComment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.AddComment(c.Request.Context(), expenseID, loggedInUserID, req.Text)
	if err != nil {
		h.respondExpenseError(c, logger, err, "add comment")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// editComment godoc
// @Summary Edit an own comment
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   commentID path string true "Comment ID"
// @Param   comment body dto.EditCommentRequest true "New comment text"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the comment author"
// @Failure 404 {object} map[string]string "Expense or comment not found"
// @Security BearerAuth
// @Router /expenses/{id}/comments/{commentID} [put]
func (h *expenseHandler) editComment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")
	commentID := c.Param("commentID")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EditComment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.EditComment(c.Request.Context(), expenseID, commentID, loggedInUserID, req.Text)
	if err != nil {
		h.respondExpenseError(c, logger, err, "edit comment")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// addReaction godoc
// @Summary React to an expense
// @Description Sets the caller's reaction, replacing any prior one
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   reaction body dto.AddReactionRequest true "Reaction type (LIKE, LOVE, SURPRISE, SAD)"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Unknown reaction type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Reactions disabled"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id}/reactions [post]
func (h *expenseHandler) addReaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AddReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddReaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	expense, err := h.expenseService.AddReaction(c.Request.Context(), expenseID, loggedInUserID, req.Type)
	if err != nil {
		h.respondExpenseError(c, logger, err, "add reaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// removeReaction godoc
// @Summary Remove the caller's reaction
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense or reaction not found"
// @Security BearerAuth
// @Router /expenses/{id}/reactions [delete]
func (h *expenseHandler) removeReaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Logged-in user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.RemoveReaction(c.Request.Context(), expenseID, loggedInUserID)
	if err != nil {
		h.respondExpenseError(c, logger, err, "remove reaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}
