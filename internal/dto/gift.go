package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// CreateGiftRequest defines the data needed to create a concealed gift
// expense. The reveal date must be strictly in the future.
type CreateGiftRequest struct {
	AccountID     string          `json:"accountID" binding:"required"`
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Category      string          `json:"category"`
	GiftForUserID string          `json:"giftForUserID" binding:"required"`
	RevealDate    time.Time       `json:"revealDate" binding:"required"`
}

// UpdateGiftRequest defines the fields editable while a gift is unrevealed.
type UpdateGiftRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	RevealDate  *time.Time       `json:"revealDate"`
}

// RevealGiftRequest controls manual reveal. RevealNow additionally converts
// the gift into a shared expense with a computed split.
type RevealGiftRequest struct {
	RevealNow bool `json:"revealNow"`
}

// GiftResponse defines the data returned for a gift expense.
type GiftResponse struct {
	ExpenseID     string              `json:"expenseID"`
	AccountID     string              `json:"accountID"`
	CreatedBy     string              `json:"createdBy"`
	Description   string              `json:"description"`
	Amount        decimal.Decimal     `json:"amount"`
	Category      string              `json:"category,omitempty"`
	GiftForUserID string              `json:"giftForUserID"`
	RevealDate    *time.Time          `json:"revealDate,omitempty"`
	IsRevealed    bool                `json:"isRevealed"`
	RevealedAt    *time.Time          `json:"revealedAt,omitempty"`
	ExpenseType   domain.ExpenseType  `json:"expenseType"`
	SplitDetails  *domain.SplitDetails `json:"splitDetails,omitempty"`
}

// ToGiftResponse converts a gift expense to its response DTO.
func ToGiftResponse(e *domain.Expense) GiftResponse {
	res := GiftResponse{
		ExpenseID:   e.ExpenseID,
		AccountID:   e.AccountID,
		CreatedBy:   e.CreatedBy,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
	}
	if e.CoupleData != nil {
		res.GiftForUserID = e.CoupleData.GiftForUserID
		res.RevealDate = e.CoupleData.RevealDate
		res.IsRevealed = e.CoupleData.IsRevealed
		res.RevealedAt = e.CoupleData.RevealedAt
		res.ExpenseType = e.CoupleData.ExpenseType
		res.SplitDetails = e.CoupleData.SplitDetails
	}
	return res
}

// ToListGiftResponse converts a slice of gift expenses to response DTOs.
func ToListGiftResponse(gifts []domain.Expense) []GiftResponse {
	res := make([]GiftResponse, len(gifts))
	for i := range gifts {
		res[i] = ToGiftResponse(&gifts[i])
	}
	return res
}

// SweepSummary reports the outcome of one auto-reveal sweep run.
type SweepSummary struct {
	Processed int `json:"processed"`
	Errored   int `json:"errored"`
}

// ErrorRate returns the fraction of failed items, 0 when nothing ran.
func (s SweepSummary) ErrorRate() float64 {
	total := s.Processed + s.Errored
	if total == 0 {
		return 0
	}
	return float64(s.Errored) / float64(total)
}
