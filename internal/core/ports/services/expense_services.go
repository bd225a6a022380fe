package services

import (
	"context"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	"github.com/tandemfin/couple_finance_app/internal/dto"
	"github.com/tandemfin/couple_finance_app/internal/utils/contextparse"
)

// ExpenseSvcFacade covers expense creation (including free-text context
// routing) and the social operations on couple expenses.
type ExpenseSvcFacade interface {
	// CreateExpense posts an expense. When no account id is given, a context
	// trigger token in the description routes it to the matching account of
	// the caller; couple accounts get the settings' default expense type.
	CreateExpense(ctx context.Context, callerUserID string, req dto.CreateExpenseRequest) (*domain.Expense, error)

	// GetExpense retrieves an expense the caller may see. Unrevealed gifts
	// stay invisible to their recipient.
	GetExpense(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, error)

	// AddComment appends a comment. Requires the account's allowComments
	// toggle; non-premium tiers are subject to the comment quota.
	AddComment(ctx context.Context, expenseID, callerUserID, text string) (*domain.Expense, error)

	// EditComment edits the caller's own comment, marking it edited.
	EditComment(ctx context.Context, expenseID, commentID, callerUserID, text string) (*domain.Expense, error)

	// AddReaction sets the caller's reaction, replacing any prior one.
	AddReaction(ctx context.Context, expenseID, callerUserID string, reactionType string) (*domain.Expense, error)

	// RemoveReaction removes the caller's reaction, if present.
	RemoveReaction(ctx context.Context, expenseID, callerUserID string) (*domain.Expense, error)

	// ParseContext runs the free-text context parser. Pure; resolving the
	// context to an account id happens in CreateExpense.
	ParseContext(ctx context.Context, text string) contextparse.Result
}
