package repositories

import (
	"context"
	"time"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// ExpenseFilter narrows expense queries. Zero values mean "no constraint".
type ExpenseFilter struct {
	From        *time.Time
	To          *time.Time
	ExpenseType domain.ExpenseType // empty matches both SHARED and PERSONAL
}

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its unique identifier.
	// Soft-deleted expenses are not returned.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByAccount retrieves the account's expenses matching the
	// filter, newest first.
	ListExpensesByAccount(ctx context.Context, accountID string, filter ExpenseFilter) ([]domain.Expense, error)

	// ListGiftsByCreator retrieves gifts created by the user on the account,
	// revealed or not.
	ListGiftsByCreator(ctx context.Context, accountID, creatorUserID string) ([]domain.Expense, error)

	// ListRevealedGiftsForRecipient retrieves revealed gifts addressed to the
	// user. Unrevealed gifts are never exposed to their recipient.
	ListRevealedGiftsForRecipient(ctx context.Context, accountID, recipientUserID string) ([]domain.Expense, error)

	// ListUnrevealedGiftsDue returns every non-revealed gift whose reveal
	// date is at or before now, across all accounts. Used by the sweep.
	ListUnrevealedGiftsDue(ctx context.Context, now time.Time) ([]domain.Expense, error)

	// CountHiddenGiftsFor counts unrevealed gifts on the account concealed
	// from the given user.
	CountHiddenGiftsFor(ctx context.Context, accountID, recipientUserID string) (int, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense overwrites an existing expense record.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// MarkExpenseDeleted soft-deletes an expense, retaining the record.
	MarkExpenseDeleted(ctx context.Context, expenseID string, deletedBy string, now time.Time) error
}

// ExpenseRepository combines all expense-related repository interfaces.
type ExpenseRepository interface {
	ExpenseReader
	ExpenseWriter
}
