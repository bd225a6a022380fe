package services

import (
	"context"

	"github.com/tandemfin/couple_finance_app/internal/core/domain"
	"github.com/tandemfin/couple_finance_app/internal/dto"
)

// AccountReaderSvc defines read operations on accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account with its member list.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListUserAccounts retrieves the accounts the user owns or belongs to.
	ListUserAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines account creation and membership management.
type AccountWriterSvc interface {
	// CreateAccount creates an account and makes the creator its owner.
	// COUPLE accounts get default couple settings provisioned alongside.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// AddMember adds a user to an account. Only the owner may do this; a
	// COUPLE account never holds more than one member besides the owner.
	AddMember(ctx context.Context, accountID, addingUserID, targetUserID string) error
}

// AccountAuthorizerSvc checks account membership before mutations.
type AccountAuthorizerSvc interface {
	// AuthorizeMemberAction verifies the user is the owner or an active
	// member of the account and returns the loaded account. Returns
	// apperrors.ErrNotFound when the account doesn't exist or the user is not
	// a member (avoids leaking account existence).
	AuthorizeMemberAction(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// ResolvePartners verifies the account is a couple with exactly two
	// partners, one of them userID, and returns (self, partner).
	ResolvePartners(ctx context.Context, account *domain.Account, userID string) (string, string, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountAuthorizerSvc
}
