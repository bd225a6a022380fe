package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	"github.com/tandemfin/couple_finance_app/internal/utils/contextparse"
)

// CreateExpenseRequest defines the data needed to post an expense. The
// description may carry a context trigger token (e.g. "@pareja") which routes
// the expense to the matching account; AccountID wins when set explicitly.
type CreateExpenseRequest struct {
	AccountID   string              `json:"accountID"`
	Description string              `json:"description" binding:"required"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Category    string              `json:"category"`
	Date        *time.Time          `json:"date"`
	ExpenseType *domain.ExpenseType `json:"expenseType" binding:"omitempty,oneof=SHARED PERSONAL"`
}

// AddCommentRequest defines the payload for commenting on an expense.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// EditCommentRequest defines the payload for editing an own comment.
type EditCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddReactionRequest defines the payload for reacting to an expense.
type AddReactionRequest struct {
	Type string `json:"type" binding:"required"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID   string                    `json:"expenseID"`
	AccountID   string                    `json:"accountID"`
	PaidBy      string                    `json:"paidBy"`
	Description string                    `json:"description"`
	Amount      decimal.Decimal           `json:"amount"`
	Category    string                    `json:"category,omitempty"`
	Date        time.Time                 `json:"date"`
	CoupleData  *domain.CoupleExpenseData `json:"coupleData,omitempty"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		AccountID:   e.AccountID,
		PaidBy:      e.PaidBy,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		CoupleData:  e.CoupleData,
		CreatedAt:   e.CreatedAt,
	}
}

// ParseContextRequest defines the payload for the context parse endpoint.
type ParseContextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParsedContextResponse mirrors contextparse.Result for the HTTP surface.
type ParsedContextResponse struct {
	Context          contextparse.Context `json:"context,omitempty"`
	CleanDescription string               `json:"cleanDescription"`
	Confidence       float64              `json:"confidence"`
}
