package repositories

import (
	"context"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account with its member list.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByUserID retrieves the accounts a user owns or is an active
	// member of.
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)

	// ListActiveCoupleAccountIDs returns the ids of every active COUPLE
	// account. Used by the premium refresh batch.
	ListActiveCoupleAccountIDs(ctx context.Context) ([]string, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// AddMember persists a new account membership.
	AddMember(ctx context.Context, member domain.AccountMember) error

	// UpdateMember updates an existing membership (role, active flag).
	UpdateMember(ctx context.Context, member domain.AccountMember) error
}

// AccountRepository combines all account-related repository interfaces.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
