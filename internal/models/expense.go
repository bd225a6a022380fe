package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// Expense represents a row of the expenses table. The couple payload (split,
// gift fields, comments, reactions) is stored as one JSONB document: it is
// always read and written as a unit with the expense.
type Expense struct {
	ExpenseID   string                    `db:"expense_id"`
	AccountID   string                    `db:"account_id"`
	PaidBy      string                    `db:"paid_by"`
	Description string                    `db:"description"`
	Amount      decimal.Decimal           `db:"amount"`
	Category    string                    `db:"category"`
	Date        time.Time                 `db:"expense_date"`
	CoupleData  *domain.CoupleExpenseData `db:"couple_data"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
